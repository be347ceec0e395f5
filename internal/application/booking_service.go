// Package application contains the use-case services that orchestrate the
// domain, persistence and messaging layers.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/auth"
	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
	"github.com/vitesse-mobility/service-rental/internal/domain/vehicle"
	"github.com/vitesse-mobility/service-rental/internal/events"
)

// EventPublisher publishes CloudEvents keyed by aggregate ID.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key, eventType string, data interface{}) error
}

// BookingService orchestrates the booking lifecycle.
type BookingService struct {
	bookings  booking.Repository
	vehicles  vehicle.Repository
	settings  settings.Store
	checker   *booking.Checker
	verifier  booking.VerificationGate
	payments  booking.PaymentGate
	publisher EventPublisher
	log       *zap.Logger
}

// NewBookingService wires the booking service.
func NewBookingService(
	bookings booking.Repository,
	vehicles vehicle.Repository,
	settingsStore settings.Store,
	verifier booking.VerificationGate,
	payments booking.PaymentGate,
	publisher EventPublisher,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		settings:  settingsStore,
		checker:   booking.NewChecker(bookings),
		verifier:  verifier,
		payments:  payments,
		publisher: publisher,
		log:       log,
	}
}

// CreateBookingInput carries everything needed to open a booking.
type CreateBookingInput struct {
	VehicleID uuid.UUID
	RenterID  *uuid.UUID
	Guest     *booking.GuestDetails
	StartDate time.Time
	EndDate   time.Time
	RenterAge *int
	PayNow    bool

	// Explicit prices skip the rate-card quote, e.g. for negotiated or
	// corporate rates. All three must be supplied together; the aggregate
	// still enforces total = round2(base + tax).
	BasePrice  *float64
	TaxAmount  *float64
	TotalPrice *float64
}

func (in CreateBookingInput) hasExplicitPrices() bool {
	return in.BasePrice != nil || in.TaxAmount != nil || in.TotalPrice != nil
}

// Quote is a priced rental window.
type Quote struct {
	BilledDays int     `json:"billed_days"`
	BasePrice  float64 `json:"base_price"`
	TaxAmount  float64 `json:"tax_amount"`
	TotalPrice float64 `json:"total_price"`
	Currency   string  `json:"currency"`
}

// GetQuote prices a rental window for a vehicle without creating anything.
func (s *BookingService) GetQuote(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, renterAge *int) (Quote, error) {
	if err := booking.ValidateWindow(start, end, time.Now().UTC()); err != nil {
		return Quote{}, err
	}
	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return Quote{}, err
	}
	return s.quote(ctx, v, start, end, renterAge)
}

// quote prices a window against the vehicle's daily rate and the current
// platform settings. Partial days bill as full days.
func (s *BookingService) quote(ctx context.Context, v *vehicle.Vehicle, start, end time.Time, renterAge *int) (Quote, error) {
	ps, err := s.settings.Get(ctx)
	if err != nil {
		return Quote{}, err
	}

	days := booking.BilledDaysBetween(start, end)
	base, err := pricing.CalculateRentalCost(pricing.ModeDay, float64(days), v.RateCard())
	if err != nil {
		return Quote{}, err
	}

	if renterAge != nil && ps.YoungDriverMinAge > 0 && *renterAge < ps.YoungDriverMinAge {
		surcharge, err := pricing.CalculateTax(base, ps.YoungDriverSurchargePct)
		if err != nil {
			return Quote{}, err
		}
		base = pricing.Round2(base + surcharge)
	}

	tax, err := pricing.CalculateTax(base, ps.TaxPercentage)
	if err != nil {
		return Quote{}, err
	}
	total, err := pricing.CalculateTotal(base, tax)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		BilledDays: days,
		BasePrice:  base,
		TaxAmount:  tax,
		TotalPrice: total,
		Currency:   ps.Currency,
	}, nil
}

// CreateBooking prices the window, checks the calendar and persists a new
// booking. The database exclusion constraint is the final arbiter when two
// creations race; the loser surfaces SlotUnavailable.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	if err := booking.ValidateWindow(input.StartDate, input.EndDate, time.Now().UTC()); err != nil {
		return nil, err
	}

	v, err := s.vehicles.FindByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.IsAvailable() {
		return nil, domain.NewSlotUnavailableError(v.ID(), input.StartDate, input.EndDate)
	}

	availability, err := s.checker.Check(ctx, v.ID(), input.StartDate, input.EndDate, nil)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, domain.NewSlotUnavailableError(v.ID(), input.StartDate, input.EndDate)
	}

	var base, tax, total float64
	if input.hasExplicitPrices() {
		if input.BasePrice == nil || input.TaxAmount == nil || input.TotalPrice == nil {
			return nil, domain.NewValidationError("explicit pricing requires base, tax and total together")
		}
		base, tax, total = *input.BasePrice, *input.TaxAmount, *input.TotalPrice
	} else {
		q, err := s.quote(ctx, v, input.StartDate, input.EndDate, input.RenterAge)
		if err != nil {
			return nil, err
		}
		base, tax, total = q.BasePrice, q.TaxAmount, q.TotalPrice
	}

	initial := booking.StatusDraft
	if input.PayNow {
		initial = booking.StatusPending
	}

	b, err := booking.NewBooking(
		v.ID(), input.RenterID, input.Guest,
		input.StartDate, input.EndDate,
		base, tax, total,
		initial,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ID().String(), events.EventBookingCreated, events.BookingCreatedData{
		BookingID:  b.ID().String(),
		VehicleID:  b.VehicleID().String(),
		RenterRef:  b.RenterRef(),
		StartDate:  b.StartDate(),
		EndDate:    b.EndDate(),
		TotalPrice: b.TotalPrice(),
		Status:     string(b.Status()),
	})
	return b, nil
}

// GetBooking retrieves a booking, enforcing ownership for non-staff callers.
func (s *BookingService) GetBooking(ctx context.Context, id, callerID uuid.UUID, role string) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, callerID, role); err != nil {
		return nil, err
	}
	return b, nil
}

// ListMyBookings retrieves the caller's bookings.
func (s *BookingService) ListMyBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (domain.PaginatedResult[*booking.Booking], error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.bookings.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return domain.PaginatedResult[*booking.Booking]{}, err
	}
	return domain.NewPaginatedResult(items, total, page, limit), nil
}

// ListAllBookings retrieves all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (domain.PaginatedResult[*booking.Booking], error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return domain.PaginatedResult[*booking.Booking]{}, err
	}
	return domain.NewPaginatedResult(items, total, page, limit), nil
}

// GetBookingStats returns booking counts by status (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (map[string]int64, error) {
	return s.bookings.CountByStatus(ctx)
}

// CheckAvailability reports whether the window is free for the vehicle.
func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (booking.Availability, error) {
	return s.checker.Check(ctx, vehicleID, start, end, nil)
}

// MarkPendingPayment moves a draft booking into the payment flow.
func (s *BookingService) MarkPendingPayment(ctx context.Context, id, callerID uuid.UUID, role string) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, callerID, role); err != nil {
		return nil, err
	}
	if err := b.MarkPendingPayment(); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// VerifyBooking consults the verification gate and, on approval, moves the
// booking to VERIFIED.
func (s *BookingService) VerifyBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.verifier.GetVerificationStatus(ctx, b.RenterRef())
	if err != nil {
		return nil, err
	}
	if err := b.Verify(status); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ID().String(), events.EventBookingVerified, events.BookingStatusData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Status:    string(b.Status()),
	})
	return b, nil
}

// ConfirmBooking consults the payment gate and, once the charge has settled,
// moves the booking to CONFIRMED.
func (s *BookingService) ConfirmBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settled, err := s.payments.GetSettlementStatus(ctx, b.ID())
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(settled); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ID().String(), events.EventBookingConfirmed, events.BookingStatusData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Status:    string(b.Status()),
	})
	return b, nil
}

// StartTrip moves a confirmed booking to ONGOING, recording the pickup
// odometer reading.
func (s *BookingService) StartTrip(ctx context.Context, id uuid.UUID, startOdometer int64, pickupNotes string) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.StartTrip(startOdometer, pickupNotes, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ID().String(), events.EventTripStarted, events.BookingStatusData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Status:    string(b.Status()),
	})
	return b, nil
}

// CompleteTripInput carries the return-time readings and charges.
type CompleteTripInput struct {
	EndOdometer int64
	ReturnNotes string
	DamageFee   float64
}

// CompleteTrip closes the trip: distance beyond the included kilometers is
// charged at the vehicle's per-km rate, the damage fee is added, and the
// booking is repriced before moving to COMPLETED.
func (s *BookingService) CompleteTrip(ctx context.Context, id uuid.UUID, input CompleteTripInput) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.vehicles.FindByID(ctx, b.VehicleID())
	if err != nil {
		return nil, err
	}
	if input.DamageFee < 0 {
		return nil, domain.NewValidationError("damage fee cannot be negative")
	}

	extraKmFee, err := s.extraKmFee(b, v, input.EndOdometer)
	if err != nil {
		return nil, err
	}

	ps, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	base := pricing.Round2(b.BasePrice() + extraKmFee + input.DamageFee)
	tax, err := pricing.CalculateTax(base, ps.TaxPercentage)
	if err != nil {
		return nil, err
	}
	total, err := pricing.CalculateTotal(base, tax)
	if err != nil {
		return nil, err
	}

	err = b.CompleteTrip(input.EndOdometer, input.ReturnNotes, extraKmFee, input.DamageFee, base, tax, total)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	var distance float64
	if b.StartOdometer() != nil {
		distance = float64(input.EndOdometer - *b.StartOdometer())
	}
	s.publish(ctx, b.ID().String(), events.EventTripCompleted, events.TripCompletedData{
		BookingID:  b.ID().String(),
		VehicleID:  b.VehicleID().String(),
		DistanceKm: distance,
		ExtraKmFee: extraKmFee,
		DamageFee:  input.DamageFee,
		TotalPrice: b.TotalPrice(),
	})
	return b, nil
}

// extraKmFee charges kilometers beyond the daily allowance at the vehicle's
// per-km rate. Vehicles without a per-km rate never charge for distance.
func (s *BookingService) extraKmFee(b *booking.Booking, v *vehicle.Vehicle, endOdometer int64) (float64, error) {
	if b.StartOdometer() == nil || v.RateCard().PerKm == nil {
		return 0, nil
	}
	if endOdometer < *b.StartOdometer() {
		return 0, domain.NewValidationError("end odometer cannot be below start odometer")
	}

	distance := float64(endOdometer - *b.StartOdometer())
	included := v.IncludedKmPerDay() * float64(b.BilledDays())
	extra := distance - included
	if extra <= 0 {
		return 0, nil
	}
	return pricing.CalculateRentalCost(pricing.ModeKm, extra, v.RateCard())
}

// CancelBooking cancels a non-terminal booking, freeing its slot.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID, reason string, callerID uuid.UUID, role string) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, callerID, role); err != nil {
		return nil, err
	}
	if err := b.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, b.ID().String(), events.EventBookingCancelled, events.BookingCancelledData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Reason:    reason,
	})
	return b, nil
}

// RescheduleBooking moves an unverified booking to a new window, re-checking
// availability with the booking itself excluded and repricing the stay.
func (s *BookingService) RescheduleBooking(ctx context.Context, id uuid.UUID, start, end time.Time, callerID uuid.UUID, role string) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, callerID, role); err != nil {
		return nil, err
	}

	excludeID := b.ID()
	availability, err := s.checker.Check(ctx, b.VehicleID(), start, end, &excludeID)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, domain.NewSlotUnavailableError(b.VehicleID(), start, end)
	}

	v, err := s.vehicles.FindByID(ctx, b.VehicleID())
	if err != nil {
		return nil, err
	}
	q, err := s.quote(ctx, v, start, end, nil)
	if err != nil {
		return nil, err
	}

	if err := b.Reschedule(start, end, q.BasePrice, q.TaxAmount, q.TotalPrice); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ApplyDocumentApproval verifies all eligible bookings for the renter
// reference. Guests are referenced by their booking ID, registered renters by
// their user ID; both arrive through the same event.
func (s *BookingService) ApplyDocumentApproval(ctx context.Context, renterRef string) error {
	ref, err := uuid.Parse(renterRef)
	if err != nil {
		s.log.Warn("document approval with invalid renter ref", zap.String("renter_ref", renterRef))
		return nil
	}

	if b, err := s.bookings.FindByID(ctx, ref); err == nil {
		return s.verifyEligible(ctx, b)
	}

	candidates, _, err := s.bookings.FindByRenterID(ctx, ref, 1, 100)
	if err != nil {
		return err
	}
	for _, b := range candidates {
		if err := s.verifyEligible(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *BookingService) verifyEligible(ctx context.Context, b *booking.Booking) error {
	if !b.Status().CanTransitionTo(booking.StatusVerified) {
		return nil
	}
	if err := b.Verify(booking.VerificationApproved); err != nil {
		return err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, b.ID().String(), events.EventBookingVerified, events.BookingStatusData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Status:    string(b.Status()),
	})
	return nil
}

// ApplyPaymentSettlement confirms the booking when its charge settles.
// Events may replay; bookings already past VERIFIED are skipped.
func (s *BookingService) ApplyPaymentSettlement(ctx context.Context, bookingID uuid.UUID, settled bool) error {
	if !settled {
		return nil
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.CodeOf(err) == domain.CodeNotFound {
			s.log.Warn("payment settled for unknown booking", zap.String("booking_id", bookingID.String()))
			return nil
		}
		return err
	}
	if !b.Status().CanTransitionTo(booking.StatusConfirmed) {
		return nil
	}

	if err := b.Confirm(true); err != nil {
		return err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return err
	}

	s.publish(ctx, b.ID().String(), events.EventBookingConfirmed, events.BookingStatusData{
		BookingID: b.ID().String(),
		VehicleID: b.VehicleID().String(),
		Status:    string(b.Status()),
	})
	return nil
}

// ExpireStaleBookings cancels DRAFT and PENDING bookings older than the
// cutoff. Returns how many were expired.
func (s *BookingService) ExpireStaleBookings(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := s.bookings.FindStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		if err := b.Cancel("expired: never verified or paid"); err != nil {
			continue
		}
		if err := s.bookings.Update(ctx, b); err != nil {
			s.log.Warn("failed to expire booking",
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
			continue
		}
		expired++
		s.publish(ctx, b.ID().String(), events.EventBookingCancelled, events.BookingCancelledData{
			BookingID: b.ID().String(),
			VehicleID: b.VehicleID().String(),
			Reason:    b.CancelNote(),
		})
	}
	return expired, nil
}

// publish sends an event and logs failures. Messaging is best-effort; the
// state change has already committed.
func (s *BookingService) publish(ctx context.Context, key, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, key, eventType, data); err != nil {
		s.log.Error("failed to publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// authorize allows staff everywhere and renters only on their own bookings.
// Guest bookings have no owning account and are staff-only.
func authorize(b *booking.Booking, callerID uuid.UUID, role string) error {
	if role == auth.RoleAdmin || role == auth.RoleAgent {
		return nil
	}
	if b.RenterID() != nil && *b.RenterID() == callerID {
		return nil
	}
	return domain.NewForbiddenError("booking belongs to another renter")
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
