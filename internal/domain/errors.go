package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrorCode classifies domain errors for transport-layer mapping.
type ErrorCode string

const (
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeSlotUnavailable   ErrorCode = "SLOT_UNAVAILABLE"
	CodeRateUnavailable   ErrorCode = "RATE_UNAVAILABLE"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeConflictingUpdate ErrorCode = "CONFLICTING_UPDATE"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeForbidden         ErrorCode = "FORBIDDEN"
)

// Error is the base type for all expected, caller-recoverable conditions.
// None of these indicate a fault in the service itself.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// NewRateUnavailableError reports that a vehicle does not offer the
// requested rental mode.
func NewRateUnavailableError(mode string) *Error {
	return &Error{
		Code:    CodeRateUnavailable,
		Message: fmt.Sprintf("vehicle offers no %s rate", mode),
	}
}

// NewInvalidStateError reports a rejected status transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

// NewConflictError reports a lost optimistic-concurrency race. The caller
// should re-read and retry.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflictingUpdate, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// NewForbiddenError reports an ownership or role violation.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// SlotUnavailableError reports an overlap between a requested rental window
// and existing bookings. It carries enough context for the caller to explain
// the failure to an end user.
type SlotUnavailableError struct {
	VehicleID uuid.UUID
	Start     time.Time
	End       time.Time
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("vehicle %s is not available from %s to %s",
		e.VehicleID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// NewSlotUnavailableError reports a booking window conflict.
func NewSlotUnavailableError(vehicleID uuid.UUID, start, end time.Time) *SlotUnavailableError {
	return &SlotUnavailableError{VehicleID: vehicleID, Start: start, End: end}
}

// CodeOf extracts the domain error code, or "" for unexpected errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var se *SlotUnavailableError
	if errors.As(err, &se) {
		return CodeSlotUnavailable
	}
	return ""
}
