package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
)

const (
	// MinDuration and MaxDuration bound the rental window at creation.
	MinDuration = 2 * time.Hour
	MaxDuration = 30 * 24 * time.Hour

	// CreationGrace allows a start timestamp slightly in the past to absorb
	// clock skew between client and server.
	CreationGrace = 5 * time.Minute

	// MaxAdvance is how far into the future a booking may start.
	MaxAdvance = 6 * 30 * 24 * time.Hour

	// StartGrace is how early before the booked start a trip may begin.
	StartGrace = time.Hour
)

// GuestDetails identifies a renter who has no registered account.
type GuestDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Booking is the aggregate root for the rental reservation domain. It owns
// its price fields and status exclusively; the vehicle is only referenced.
type Booking struct {
	id        uuid.UUID
	vehicleID uuid.UUID
	renterID  *uuid.UUID
	guest     *GuestDetails

	startDate time.Time
	endDate   time.Time

	basePrice  float64
	taxAmount  float64
	totalPrice float64

	status Status

	startOdometer *int64
	endOdometer   *int64
	pickupNotes   string
	returnNotes   string
	extraKmFee    *float64
	damageFee     *float64

	cancelNote string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a booking after validating the rental window, renter
// identity and price invariants. initial must be DRAFT or PENDING depending
// on whether the renter intends to pay immediately.
func NewBooking(
	vehicleID uuid.UUID,
	renterID *uuid.UUID,
	guest *GuestDetails,
	start, end time.Time,
	base, tax, total float64,
	initial Status,
) (*Booking, error) {
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if renterID == nil {
		if guest == nil || guest.Name == "" || guest.Phone == "" || guest.Email == "" {
			return nil, domain.NewValidationError("guest bookings require name, phone and email")
		}
	}
	if initial != StatusDraft && initial != StatusPending {
		return nil, domain.NewValidationError("bookings start as DRAFT or PENDING")
	}

	now := time.Now().UTC()
	if err := ValidateWindow(start, end, now); err != nil {
		return nil, err
	}

	if base < 0 || tax < 0 || total < 0 {
		return nil, domain.NewValidationError("prices cannot be negative")
	}
	if want := pricing.Round2(base + tax); math.Abs(total-want) > 0.001 {
		return nil, domain.NewValidationError("total price must equal base plus tax")
	}

	return &Booking{
		id:         uuid.New(),
		vehicleID:  vehicleID,
		renterID:   renterID,
		guest:      guest,
		startDate:  start.UTC(),
		endDate:    end.UTC(),
		basePrice:  base,
		taxAmount:  tax,
		totalPrice: total,
		status:     initial,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ValidateWindow checks the rental window rules applied at creation and
// reschedule time: at least 2 hours, at most 30 days, starting no earlier
// than 5 minutes ago and no later than 6 months out.
func ValidateWindow(start, end, now time.Time) error {
	if !end.After(start) {
		return domain.NewValidationError("end date must be after start date")
	}
	dur := end.Sub(start)
	if dur < MinDuration {
		return domain.NewValidationError("rental duration must be at least 2 hours")
	}
	if dur > MaxDuration {
		return domain.NewValidationError("rental duration cannot exceed 30 days")
	}
	if start.Before(now.Add(-CreationGrace)) {
		return domain.NewValidationError("start date cannot be in the past")
	}
	if start.After(now.Add(MaxAdvance)) {
		return domain.NewValidationError("start date cannot be more than 6 months ahead")
	}
	return nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, vehicleID uuid.UUID,
	renterID *uuid.UUID,
	guest *GuestDetails,
	start, end time.Time,
	base, tax, total float64,
	status Status,
	startOdometer, endOdometer *int64,
	pickupNotes, returnNotes string,
	extraKmFee, damageFee *float64,
	cancelNote string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		vehicleID:     vehicleID,
		renterID:      renterID,
		guest:         guest,
		startDate:     start,
		endDate:       end,
		basePrice:     base,
		taxAmount:     tax,
		totalPrice:    total,
		status:        status,
		startOdometer: startOdometer,
		endOdometer:   endOdometer,
		pickupNotes:   pickupNotes,
		returnNotes:   returnNotes,
		extraKmFee:    extraKmFee,
		damageFee:     damageFee,
		cancelNote:    cancelNote,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) VehicleID() uuid.UUID  { return b.vehicleID }
func (b *Booking) RenterID() *uuid.UUID  { return b.renterID }
func (b *Booking) Guest() *GuestDetails  { return b.guest }
func (b *Booking) StartDate() time.Time  { return b.startDate }
func (b *Booking) EndDate() time.Time    { return b.endDate }
func (b *Booking) BasePrice() float64    { return b.basePrice }
func (b *Booking) TaxAmount() float64    { return b.taxAmount }
func (b *Booking) TotalPrice() float64   { return b.totalPrice }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) StartOdometer() *int64 { return b.startOdometer }
func (b *Booking) EndOdometer() *int64   { return b.endOdometer }
func (b *Booking) PickupNotes() string   { return b.pickupNotes }
func (b *Booking) ReturnNotes() string   { return b.returnNotes }
func (b *Booking) ExtraKmFee() *float64  { return b.extraKmFee }
func (b *Booking) DamageFee() *float64   { return b.damageFee }
func (b *Booking) CancelNote() string    { return b.cancelNote }
func (b *Booking) Version() int64        { return b.version }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// RenterRef identifies the renter for the verification subsystem: the
// renter's user ID when registered, the booking ID for guests.
func (b *Booking) RenterRef() string {
	if b.renterID != nil {
		return b.renterID.String()
	}
	return b.id.String()
}

// BilledDays is the number of days the booking is charged for.
func (b *Booking) BilledDays() int {
	return BilledDaysBetween(b.startDate, b.endDate)
}

// BilledDaysBetween is the chargeable day count for a rental window: the
// duration in days, rounded up. Partial days bill as full days. Every pricing
// path derives its day count from this one function.
func BilledDaysBetween(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// --- Behavior ---

// MarkPendingPayment moves a draft booking into the payment/verification flow.
func (b *Booking) MarkPendingPayment() error {
	if !b.status.CanTransitionTo(StatusPending) {
		return domain.NewInvalidStateError(string(b.status), string(StatusPending))
	}
	b.status = StatusPending
	b.updatedAt = time.Now().UTC()
	return nil
}

// Verify transitions the booking to VERIFIED once the verification gate has
// approved the renter's documents.
func (b *Booking) Verify(result VerificationStatus) error {
	if !b.status.CanTransitionTo(StatusVerified) {
		return domain.NewInvalidStateError(string(b.status), string(StatusVerified))
	}
	if result != VerificationApproved {
		return domain.NewInvalidStateError(string(b.status), string(StatusVerified))
	}
	b.status = StatusVerified
	b.updatedAt = time.Now().UTC()
	return nil
}

// Confirm transitions the booking to CONFIRMED once payment has settled.
func (b *Booking) Confirm(settled bool) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	if !settled {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// StartTrip transitions the booking to ONGOING and records the pickup
// odometer reading. Trips may begin up to StartGrace before the booked start.
func (b *Booking) StartTrip(startOdometer int64, pickupNotes string, now time.Time) error {
	if !b.status.CanTransitionTo(StatusOngoing) {
		return domain.NewInvalidStateError(string(b.status), string(StatusOngoing))
	}
	if startOdometer < 0 {
		return domain.NewValidationError("start odometer cannot be negative")
	}
	if now.Before(b.startDate.Add(-StartGrace)) {
		return domain.NewValidationError("trip cannot start this early")
	}
	b.status = StatusOngoing
	b.startOdometer = &startOdometer
	b.pickupNotes = pickupNotes
	b.updatedAt = now.UTC()
	return nil
}

// CompleteTrip transitions the booking to COMPLETED, recording the return
// odometer reading, any fees, and the recalculated price fields. The caller
// computes fees and prices; the aggregate applies them together with the
// status change so the repository persists them in one atomic update.
func (b *Booking) CompleteTrip(
	endOdometer int64,
	returnNotes string,
	extraKmFee, damageFee float64,
	base, tax, total float64,
) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	if b.startOdometer != nil && endOdometer < *b.startOdometer {
		return domain.NewValidationError("end odometer cannot be below start odometer")
	}
	if extraKmFee < 0 || damageFee < 0 {
		return domain.NewValidationError("fees cannot be negative")
	}
	if base < 0 || tax < 0 || total < 0 {
		return domain.NewValidationError("prices cannot be negative")
	}
	b.status = StatusCompleted
	b.endOdometer = &endOdometer
	b.returnNotes = returnNotes
	b.extraKmFee = &extraKmFee
	b.damageFee = &damageFee
	b.basePrice = base
	b.taxAmount = tax
	b.totalPrice = total
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to CANCELLED if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.cancelNote = reason
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reschedule replaces the rental window and repriced amounts on a booking
// that has not yet been verified. Availability must be re-checked by the
// caller with this booking excluded.
func (b *Booking) Reschedule(start, end time.Time, base, tax, total float64) error {
	if b.status != StatusDraft && b.status != StatusPending {
		return &domain.Error{
			Code:    domain.CodeInvalidTransition,
			Message: fmt.Sprintf("cannot reschedule a %s booking, only DRAFT or PENDING", b.status),
		}
	}
	now := time.Now().UTC()
	if err := ValidateWindow(start, end, now); err != nil {
		return err
	}
	if base < 0 || tax < 0 || total < 0 {
		return domain.NewValidationError("prices cannot be negative")
	}
	b.startDate = start.UTC()
	b.endDate = end.UTC()
	b.basePrice = base
	b.taxAmount = tax
	b.totalPrice = total
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
