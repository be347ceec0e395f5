package booking

import (
	"context"

	"github.com/google/uuid"
)

// VerificationStatus is the document/OCR approval decision for a renter.
type VerificationStatus string

const (
	VerificationNotUploaded VerificationStatus = "NOT_UPLOADED"
	VerificationPending     VerificationStatus = "PENDING"
	VerificationApproved    VerificationStatus = "APPROVED"
	VerificationRejected    VerificationStatus = "REJECTED"
)

// VerificationGate reads the document approval decision from the
// verification subsystem. The core never mutates verification state.
type VerificationGate interface {
	GetVerificationStatus(ctx context.Context, renterRef string) (VerificationStatus, error)
}

// PaymentGate reads the settlement state of a booking's charge from the
// payment subsystem.
type PaymentGate interface {
	GetSettlementStatus(ctx context.Context, bookingID uuid.UUID) (bool, error)
}
