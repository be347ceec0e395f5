package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory OverlapStore applying the same half-open rule the
// SQL repository does.
type memStore struct {
	bookings []*Booking
}

func (m *memStore) FindOverlapping(_ context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*Booking, error) {
	var out []*Booking
	for _, b := range m.bookings {
		if b.VehicleID() != vehicleID {
			continue
		}
		if !b.Status().CountsTowardAvailability() {
			continue
		}
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		if Overlaps(start, end, b.StartDate(), b.EndDate()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func seedBooking(t *testing.T, vehicleID uuid.UUID, start, end time.Time) *Booking {
	t.Helper()
	renterID := uuid.New()
	b, err := NewBooking(vehicleID, &renterID, nil, start, end, 100, 20, 120, StatusPending)
	require.NoError(t, err)
	return b
}

func TestChecker(t *testing.T) {
	ctx := context.Background()
	vehicleID := uuid.New()
	day := 24 * time.Hour
	base := time.Now().UTC().Truncate(time.Hour).Add(day)

	existing := seedBooking(t, vehicleID, base, base.Add(2*day)) // day 1-3
	store := &memStore{bookings: []*Booking{existing}}
	checker := NewChecker(store)

	t.Run("overlapping window conflicts", func(t *testing.T) {
		// day 2-4 overlaps day 1-3
		av, err := checker.Check(ctx, vehicleID, base.Add(day), base.Add(3*day), nil)
		require.NoError(t, err)
		assert.False(t, av.Available)
		require.Len(t, av.Conflicts, 1)
		assert.Equal(t, existing.ID(), av.Conflicts[0].ID())
	})

	t.Run("back-to-back boundary is free", func(t *testing.T) {
		// day 3-5 touches the boundary exactly
		av, err := checker.Check(ctx, vehicleID, base.Add(2*day), base.Add(4*day), nil)
		require.NoError(t, err)
		assert.True(t, av.Available)
		assert.Empty(t, av.Conflicts)
	})

	t.Run("other vehicle unaffected", func(t *testing.T) {
		av, err := checker.Check(ctx, uuid.New(), base.Add(day), base.Add(3*day), nil)
		require.NoError(t, err)
		assert.True(t, av.Available)
	})

	t.Run("cancelled bookings do not conflict", func(t *testing.T) {
		require.NoError(t, existing.Cancel("no longer needed"))
		av, err := checker.Check(ctx, vehicleID, base.Add(day), base.Add(3*day), nil)
		require.NoError(t, err)
		assert.True(t, av.Available)
	})

	t.Run("exclusion skips own booking on update", func(t *testing.T) {
		own := seedBooking(t, vehicleID, base.Add(5*day), base.Add(6*day))
		store.bookings = append(store.bookings, own)

		ownID := own.ID()
		av, err := checker.Check(ctx, vehicleID, base.Add(5*day), base.Add(7*day), &ownID)
		require.NoError(t, err)
		assert.True(t, av.Available)

		av, err = checker.Check(ctx, vehicleID, base.Add(5*day), base.Add(7*day), nil)
		require.NoError(t, err)
		assert.False(t, av.Available)
	})

	t.Run("bad interval rejected", func(t *testing.T) {
		_, err := checker.Check(ctx, vehicleID, base.Add(day), base, nil)
		assert.Error(t, err)
	})
}

func TestOverlaps(t *testing.T) {
	t0 := time.Now().UTC()
	h := time.Hour

	assert.True(t, Overlaps(t0, t0.Add(2*h), t0.Add(h), t0.Add(3*h)))
	assert.True(t, Overlaps(t0.Add(h), t0.Add(2*h), t0, t0.Add(4*h))) // contained
	assert.False(t, Overlaps(t0, t0.Add(h), t0.Add(h), t0.Add(2*h))) // half-open boundary
	assert.False(t, Overlaps(t0.Add(2*h), t0.Add(3*h), t0, t0.Add(h)))
}
