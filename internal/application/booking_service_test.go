package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
	"github.com/vitesse-mobility/service-rental/internal/domain/vehicle"
)

// --- fakes ---

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, _, _ int) ([]*booking.Booking, int64, error) {
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.RenterID() != nil && *b.RenterID() == renterID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*booking.Booking, int64, error) {
	var out []*booking.Booking
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, b := range r.bookings {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) FindStale(_ context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.bookings {
		if (b.Status() == booking.StatusDraft || b.Status() == booking.StatusPending) &&
			b.CreatedAt().Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.bookings {
		if b.VehicleID() != vehicleID || !b.Status().CountsTowardAvailability() {
			continue
		}
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		if booking.Overlaps(start, end, b.StartDate(), b.EndDate()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *booking.Booking) error {
	conflicts, _ := r.FindOverlapping(context.Background(), b.VehicleID(), b.StartDate(), b.EndDate(), nil)
	if len(conflicts) > 0 {
		return domain.NewSlotUnavailableError(b.VehicleID(), b.StartDate(), b.EndDate())
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.bookings[b.ID()]; !ok {
		return domain.NewNotFoundError("booking", b.ID().String())
	}
	r.bookings[b.ID()] = b
	return nil
}

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*vehicle.Vehicle
}

func newFakeVehicleRepo(vs ...*vehicle.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*vehicle.Vehicle)}
	for _, v := range vs {
		r.vehicles[v.ID()] = v
	}
	return r
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NewNotFoundError("vehicle", id.String())
	}
	return v, nil
}

func (r *fakeVehicleRepo) ListAll(_ context.Context, _ bool, _, _ int) ([]*vehicle.Vehicle, int64, error) {
	var out []*vehicle.Vehicle
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *vehicle.Vehicle) error {
	r.vehicles[v.ID()] = v
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicle.Vehicle) error {
	r.vehicles[v.ID()] = v
	return nil
}

type fakeSettingsStore struct {
	current settings.PlatformSettings
}

func (s *fakeSettingsStore) Get(_ context.Context) (settings.PlatformSettings, error) {
	return s.current, nil
}

func (s *fakeSettingsStore) Update(_ context.Context, ps settings.PlatformSettings) error {
	s.current = ps
	return nil
}

type fakeVerifier struct {
	status booking.VerificationStatus
}

func (v *fakeVerifier) GetVerificationStatus(_ context.Context, _ string) (booking.VerificationStatus, error) {
	return v.status, nil
}

type fakePayments struct {
	settled bool
}

func (p *fakePayments) GetSettlementStatus(_ context.Context, _ uuid.UUID) (bool, error) {
	return p.settled, nil
}

type publishedEvent struct {
	key       string
	eventType string
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, key, eventType string, _ interface{}) error {
	p.events = append(p.events, publishedEvent{key: key, eventType: eventType})
	return nil
}

// --- fixtures ---

func ptr[T any](v T) *T { return &v }

func testVehicle(t *testing.T) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle("Toyota", "Corolla", "B-1234-XY", 2022, pricing.RateCard{
		PerDay: ptr(100.0),
		PerKm:  ptr(0.5),
	}, 100)
	require.NoError(t, err)
	return v
}

type serviceFixture struct {
	svc       *BookingService
	bookings  *fakeBookingRepo
	vehicles  *fakeVehicleRepo
	settings  *fakeSettingsStore
	verifier  *fakeVerifier
	payments  *fakePayments
	publisher *fakePublisher
	vehicle   *vehicle.Vehicle
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		bookings: newFakeBookingRepo(),
		settings: &fakeSettingsStore{current: settings.PlatformSettings{
			TaxPercentage:           20,
			Currency:                "USD",
			YoungDriverMinAge:       25,
			YoungDriverSurchargePct: 10,
		}},
		verifier:  &fakeVerifier{status: booking.VerificationApproved},
		payments:  &fakePayments{settled: true},
		publisher: &fakePublisher{},
	}
	f.vehicle = testVehicle(t)
	f.vehicles = newFakeVehicleRepo(f.vehicle)
	f.svc = NewBookingService(
		f.bookings, f.vehicles, f.settings,
		f.verifier, f.payments, f.publisher,
		zap.NewNop(),
	)
	return f
}

func window(daysAhead, durationDays int) (time.Time, time.Time) {
	start := time.Now().UTC().Add(time.Duration(daysAhead) * 24 * time.Hour).Truncate(time.Hour)
	return start, start.Add(time.Duration(durationDays) * 24 * time.Hour)
}

func (f *serviceFixture) createBooking(t *testing.T, daysAhead, durationDays int, payNow bool) *booking.Booking {
	t.Helper()
	start, end := window(daysAhead, durationDays)
	renterID := uuid.New()
	b, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
		PayNow:    payNow,
	})
	require.NoError(t, err)
	return b
}

func (f *serviceFixture) eventTypes() []string {
	var types []string
	for _, e := range f.publisher.events {
		types = append(types, e.eventType)
	}
	return types
}

// --- tests ---

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := window(1, 2)
	renterID := uuid.New()

	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)

	assert.Equal(t, booking.StatusDraft, b.Status())
	assert.InDelta(t, 200.0, b.BasePrice(), 0.001)
	assert.InDelta(t, 40.0, b.TaxAmount(), 0.001)
	assert.InDelta(t, 240.0, b.TotalPrice(), 0.001)
	assert.Contains(t, f.eventTypes(), "booking.created")
}

func TestCreateBookingPayNowStartsPending(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, 1, 2, true)
	assert.Equal(t, booking.StatusPending, b.Status())
}

func TestCreateBookingPartialDayBillsFullDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, _ := window(1, 1)
	end := start.Add(25 * time.Hour)
	renterID := uuid.New()

	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, b.BilledDays())
	assert.InDelta(t, 200.0, b.BasePrice(), 0.001)
}

func TestCreateBookingYoungDriverSurcharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := window(1, 2)
	renterID := uuid.New()

	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
		RenterAge: ptr(21),
	})
	require.NoError(t, err)

	// 200 + 10% surcharge = 220, then 20% tax.
	assert.InDelta(t, 220.0, b.BasePrice(), 0.001)
	assert.InDelta(t, 44.0, b.TaxAmount(), 0.001)
	assert.InDelta(t, 264.0, b.TotalPrice(), 0.001)
}

func TestCreateBookingExplicitPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := window(1, 2)
	renterID := uuid.New()

	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID:  f.vehicle.ID(),
		RenterID:   &renterID,
		StartDate:  start,
		EndDate:    end,
		BasePrice:  ptr(150.0),
		TaxAmount:  ptr(30.0),
		TotalPrice: ptr(180.0),
	})
	require.NoError(t, err)

	// Negotiated prices are taken as-is instead of the 200/40/240 quote.
	assert.InDelta(t, 150.0, b.BasePrice(), 0.001)
	assert.InDelta(t, 30.0, b.TaxAmount(), 0.001)
	assert.InDelta(t, 180.0, b.TotalPrice(), 0.001)
}

func TestCreateBookingExplicitPricesMustBalance(t *testing.T) {
	f := newFixture(t)
	start, end := window(1, 2)
	renterID := uuid.New()

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID:  f.vehicle.ID(),
		RenterID:   &renterID,
		StartDate:  start,
		EndDate:    end,
		BasePrice:  ptr(150.0),
		TaxAmount:  ptr(30.0),
		TotalPrice: ptr(200.0),
	})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestCreateBookingExplicitPricesRequireAllThree(t *testing.T) {
	f := newFixture(t)
	start, end := window(1, 2)
	renterID := uuid.New()

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
		BasePrice: ptr(150.0),
	})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestCreateBookingGuestWithoutContactFails(t *testing.T) {
	f := newFixture(t)
	start, end := window(1, 2)

	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		Guest:     &booking.GuestDetails{Name: "Ana"},
		StartDate: start,
		EndDate:   end,
	})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestCreateBookingOverlapRejected(t *testing.T) {
	f := newFixture(t)
	f.createBooking(t, 1, 3, false)

	start, end := window(2, 2)
	renterID := uuid.New()
	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
	})
	assert.Equal(t, domain.CodeSlotUnavailable, domain.CodeOf(err))
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	first := f.createBooking(t, 1, 2, false)

	renterID := uuid.New()
	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: first.EndDate(),
		EndDate:   first.EndDate().Add(48 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateBookingUnavailableVehicleRejected(t *testing.T) {
	f := newFixture(t)
	f.vehicle.SetAvailability(false)

	start, end := window(1, 2)
	renterID := uuid.New()
	_, err := f.svc.CreateBooking(context.Background(), CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
	})
	assert.Equal(t, domain.CodeSlotUnavailable, domain.CodeOf(err))
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 3, false)

	_, err := f.svc.CancelBooking(ctx, b.ID(), "changed plans", *b.RenterID(), auth.RoleCustomer)
	require.NoError(t, err)

	start, end := window(2, 2)
	renterID := uuid.New()
	_, err = f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   end,
	})
	assert.NoError(t, err)
}

func TestVerifyBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 2, true)

	got, err := f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusVerified, got.Status())
	assert.Contains(t, f.eventTypes(), "booking.verified")
}

func TestVerifyBookingRejectedDocuments(t *testing.T) {
	f := newFixture(t)
	f.verifier.status = booking.VerificationRejected
	b := f.createBooking(t, 1, 2, true)

	_, err := f.svc.VerifyBooking(context.Background(), b.ID())
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 2, true)
	_, err := f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)

	got, err := f.svc.ConfirmBooking(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, got.Status())
}

func TestConfirmBookingUnsettledPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.payments.settled = false
	b := f.createBooking(t, 1, 2, true)
	_, err := f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)

	_, err = f.svc.ConfirmBooking(ctx, b.ID())
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
}

func TestConfirmBookingSkipsVerification(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, 1, 2, true)

	_, err := f.svc.ConfirmBooking(context.Background(), b.ID())
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
}

// confirmedBooking creates a CONFIRMED booking starting 30 minutes from now,
// close enough for StartTrip's early-pickup grace.
func (f *serviceFixture) confirmedBooking(t *testing.T) *booking.Booking {
	t.Helper()
	ctx := context.Background()
	start := time.Now().UTC().Add(30 * time.Minute)
	renterID := uuid.New()
	b, err := f.svc.CreateBooking(ctx, CreateBookingInput{
		VehicleID: f.vehicle.ID(),
		RenterID:  &renterID,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		PayNow:    true,
	})
	require.NoError(t, err)
	_, err = f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)
	got, err := f.svc.ConfirmBooking(ctx, b.ID())
	require.NoError(t, err)
	return got
}

func TestStartTrip(t *testing.T) {
	f := newFixture(t)
	b := f.confirmedBooking(t)

	got, err := f.svc.StartTrip(context.Background(), b.ID(), 12000, "full tank")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusOngoing, got.Status())
	require.NotNil(t, got.StartOdometer())
	assert.Equal(t, int64(12000), *got.StartOdometer())
}

func TestCompleteTripWithinAllowance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.confirmedBooking(t)
	_, err := f.svc.StartTrip(ctx, b.ID(), 12000, "")
	require.NoError(t, err)

	// 150 km over 2 billed days, allowance is 200 km.
	got, err := f.svc.CompleteTrip(ctx, b.ID(), CompleteTripInput{EndOdometer: 12150})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, got.Status())
	require.NotNil(t, got.ExtraKmFee())
	assert.Zero(t, *got.ExtraKmFee())
	assert.InDelta(t, 240.0, got.TotalPrice(), 0.001)
}

func TestCompleteTripChargesExtraKmAndDamage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.confirmedBooking(t)
	_, err := f.svc.StartTrip(ctx, b.ID(), 12000, "")
	require.NoError(t, err)

	// 300 km driven, 200 km included: 100 extra km at 0.50 = 50.
	got, err := f.svc.CompleteTrip(ctx, b.ID(), CompleteTripInput{
		EndOdometer: 12300,
		DamageFee:   30,
	})
	require.NoError(t, err)

	require.NotNil(t, got.ExtraKmFee())
	assert.InDelta(t, 50.0, *got.ExtraKmFee(), 0.001)
	// base 200 + 50 + 30 = 280, tax 56, total 336.
	assert.InDelta(t, 280.0, got.BasePrice(), 0.001)
	assert.InDelta(t, 56.0, got.TaxAmount(), 0.001)
	assert.InDelta(t, 336.0, got.TotalPrice(), 0.001)
	assert.Contains(t, f.eventTypes(), "booking.trip_completed")
}

func TestCompleteTripRejectsOdometerRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.confirmedBooking(t)
	_, err := f.svc.StartTrip(ctx, b.ID(), 12000, "")
	require.NoError(t, err)

	_, err = f.svc.CompleteTrip(ctx, b.ID(), CompleteTripInput{EndOdometer: 11900})
	assert.Equal(t, domain.CodeInvalidInput, domain.CodeOf(err))
}

func TestCancelBookingForbiddenForOtherRenter(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, 1, 2, false)

	_, err := f.svc.CancelBooking(context.Background(), b.ID(), "nope", uuid.New(), auth.RoleCustomer)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestCancelBookingAllowedForAdmin(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, 1, 2, false)

	got, err := f.svc.CancelBooking(context.Background(), b.ID(), "fraud", uuid.New(), auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status())
}

func TestRescheduleBookingExcludesItself(t *testing.T) {
	f := newFixture(t)
	b := f.createBooking(t, 1, 3, false)

	// Shift by one day: overlaps its own old window, which must not conflict.
	newStart := b.StartDate().Add(24 * time.Hour)
	newEnd := b.EndDate().Add(24 * time.Hour)
	got, err := f.svc.RescheduleBooking(context.Background(), b.ID(), newStart, newEnd, *b.RenterID(), auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, newStart, got.StartDate())
	assert.InDelta(t, 300.0, got.BasePrice(), 0.001)
}

func TestRescheduleVerifiedBookingRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 2, true)
	_, err := f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)

	newStart, newEnd := window(10, 2)
	_, err = f.svc.RescheduleBooking(ctx, b.ID(), newStart, newEnd, *b.RenterID(), auth.RoleCustomer)
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
}

func TestApplyPaymentSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 2, true)
	_, err := f.svc.VerifyBooking(ctx, b.ID())
	require.NoError(t, err)

	require.NoError(t, f.svc.ApplyPaymentSettlement(ctx, b.ID(), true))
	got, err := f.svc.GetBooking(ctx, b.ID(), *b.RenterID(), auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, got.Status())

	// Replays are no-ops.
	require.NoError(t, f.svc.ApplyPaymentSettlement(ctx, b.ID(), true))
}

func TestApplyDocumentApprovalByRenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.createBooking(t, 1, 2, true)

	require.NoError(t, f.svc.ApplyDocumentApproval(ctx, b.RenterID().String()))
	got, err := f.svc.GetBooking(ctx, b.ID(), *b.RenterID(), auth.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusVerified, got.Status())
}

func TestExpireStaleBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	renterID := uuid.New()
	start, end := window(5, 2)
	stale := booking.Reconstruct(
		uuid.New(), f.vehicle.ID(), &renterID, nil,
		start, end,
		200, 40, 240,
		booking.StatusPending,
		nil, nil, "", "", nil, nil, "",
		1,
		time.Now().UTC().Add(-48*time.Hour), time.Now().UTC().Add(-48*time.Hour),
	)
	f.bookings.bookings[stale.ID()] = stale

	fresh := f.createBooking(t, 1, 2, false)

	expired, err := f.svc.ExpireStaleBookings(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, booking.StatusCancelled, stale.Status())
	assert.Equal(t, booking.StatusDraft, fresh.Status())
}

func TestGetQuote(t *testing.T) {
	f := newFixture(t)
	start, end := window(1, 3)

	q, err := f.svc.GetQuote(context.Background(), f.vehicle.ID(), start, end, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, q.BilledDays)
	assert.InDelta(t, 300.0, q.BasePrice, 0.001)
	assert.InDelta(t, 60.0, q.TaxAmount, 0.001)
	assert.InDelta(t, 360.0, q.TotalPrice, 0.001)
	assert.Equal(t, "USD", q.Currency)
}
