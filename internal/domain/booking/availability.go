package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vitesse-mobility/service-rental/internal/domain"
)

// OverlapStore is the read-side needed by the availability checker.
type OverlapStore interface {
	// FindOverlapping returns non-cancelled bookings for the vehicle whose
	// [start, end) interval intersects the candidate one, excluding
	// excludeID when set.
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*Booking, error)
}

// Availability is the result of a calendar check for one vehicle.
type Availability struct {
	Available bool
	Conflicts []*Booking
}

// Checker decides whether a candidate rental window collides with existing
// bookings. Every creation and reschedule path goes through this one
// checker; the overlap rule lives nowhere else.
type Checker struct {
	store OverlapStore
}

// NewChecker creates an availability checker over the given read-store.
func NewChecker(store OverlapStore) *Checker {
	return &Checker{store: store}
}

// Check reports whether [start, end) is free for the vehicle. Intervals are
// half-open, so a booking ending exactly when another starts does not
// conflict. excludeID skips one booking, used when re-validating an update.
func (c *Checker) Check(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (Availability, error) {
	if !end.After(start) {
		return Availability{}, domain.NewValidationError("end date must be after start date")
	}

	conflicts, err := c.store.FindOverlapping(ctx, vehicleID, start, end, excludeID)
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// Overlaps is the half-open interval test shared with in-memory callers:
// [aStart, aEnd) intersects [bStart, bEnd) iff aStart < bEnd && aEnd > bStart.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
