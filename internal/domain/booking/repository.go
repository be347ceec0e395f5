package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	OverlapStore

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRenterID retrieves bookings belonging to a renter with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// FindStale returns DRAFT and PENDING bookings created before the cutoff,
	// candidates for automatic expiry.
	FindStale(ctx context.Context, cutoff time.Time) ([]*Booking, error)

	// Save persists a new booking. The availability check and the insert run
	// in one transaction; an exclusion-constraint violation surfaces as
	// SlotUnavailable.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	// A version mismatch surfaces as ConflictingUpdate.
	Update(ctx context.Context, b *Booking) error
}
