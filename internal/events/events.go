// Package events defines the topics and payloads this service exchanges with
// the verification and payment services.
package events

import "time"

// Topics.
const (
	TopicBookingEvents      = "booking.events"
	TopicVerificationEvents = "verification.events"
	TopicPaymentEvents      = "payment.events"
)

// Event source identifier for outgoing events.
const SourceRentalService = "service-rental"

// Outgoing event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingVerified  = "booking.verified"
	EventBookingConfirmed = "booking.confirmed"
	EventTripStarted      = "booking.trip_started"
	EventTripCompleted    = "booking.trip_completed"
	EventBookingCancelled = "booking.cancelled"
)

// Incoming event types.
const (
	EventDocumentApproved = "verification.document_approved"
	EventPaymentSettled   = "payment.settled"
)

// BookingCreatedData announces a new booking and its quoted price.
type BookingCreatedData struct {
	BookingID  string    `json:"booking_id"`
	VehicleID  string    `json:"vehicle_id"`
	RenterRef  string    `json:"renter_ref"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
}

// BookingStatusData announces a booking status change.
type BookingStatusData struct {
	BookingID string `json:"booking_id"`
	VehicleID string `json:"vehicle_id"`
	Status    string `json:"status"`
}

// TripCompletedData announces trip completion with the final charge.
type TripCompletedData struct {
	BookingID  string  `json:"booking_id"`
	VehicleID  string  `json:"vehicle_id"`
	DistanceKm float64 `json:"distance_km"`
	ExtraKmFee float64 `json:"extra_km_fee"`
	DamageFee  float64 `json:"damage_fee"`
	TotalPrice float64 `json:"total_price"`
}

// BookingCancelledData announces a cancellation and its reason.
type BookingCancelledData struct {
	BookingID string `json:"booking_id"`
	VehicleID string `json:"vehicle_id"`
	Reason    string `json:"reason"`
}

// DocumentApprovedData arrives from the verification service when a renter's
// documents pass review.
type DocumentApprovedData struct {
	RenterRef string `json:"renter_ref"`
	Decision  string `json:"decision"`
}

// PaymentSettledData arrives from the payment service when a booking's charge
// settles.
type PaymentSettledData struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Settled   bool    `json:"settled"`
}
