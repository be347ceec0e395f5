package photo

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for trip photos.
type Repository interface {
	// Save persists a new trip photo.
	Save(ctx context.Context, p *TripPhoto) error

	// FindByBookingID retrieves all photos for a booking, oldest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*TripPhoto, error)
}
