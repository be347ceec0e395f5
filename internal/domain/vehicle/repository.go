package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for vehicle aggregates.
type Repository interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// ListAll retrieves vehicles with pagination. When availableOnly is set,
	// vehicles with the administrative availability flag cleared are skipped.
	ListAll(ctx context.Context, availableOnly bool, page, limit int) ([]*Vehicle, int64, error)

	// Save persists a new vehicle.
	Save(ctx context.Context, v *Vehicle) error

	// Update persists changes to an existing vehicle with optimistic locking.
	Update(ctx context.Context, v *Vehicle) error
}
