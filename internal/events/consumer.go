package events

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/kafka"
)

// BookingGateway is the slice of the booking application service the inbound
// consumers drive.
type BookingGateway interface {
	// ApplyDocumentApproval verifies all eligible bookings for the renter.
	ApplyDocumentApproval(ctx context.Context, renterRef string) error

	// ApplyPaymentSettlement confirms the booking when its charge settles.
	ApplyPaymentSettlement(ctx context.Context, bookingID uuid.UUID, settled bool) error
}

// VerificationEventConsumer reacts to document decisions from the
// verification service.
type VerificationEventConsumer struct {
	consumer *kafka.Consumer
	bookings BookingGateway
	log      *zap.Logger
}

// NewVerificationEventConsumer wires the consumer to the booking gateway.
func NewVerificationEventConsumer(consumer *kafka.Consumer, bookings BookingGateway, log *zap.Logger) *VerificationEventConsumer {
	return &VerificationEventConsumer{consumer: consumer, bookings: bookings, log: log}
}

// Start consumes verification events until the context is cancelled.
func (c *VerificationEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, func(ctx context.Context, event kafka.CloudEvent) error {
		if event.Type != EventDocumentApproved {
			return nil
		}

		var data DocumentApprovedData
		if err := event.ParseData(&data); err != nil {
			return err
		}

		c.log.Info("document approved",
			zap.String("renter_ref", data.RenterRef),
		)
		return c.bookings.ApplyDocumentApproval(ctx, data.RenterRef)
	})
}

// PaymentEventConsumer reacts to settlement events from the payment service.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	bookings BookingGateway
	log      *zap.Logger
}

// NewPaymentEventConsumer wires the consumer to the booking gateway.
func NewPaymentEventConsumer(consumer *kafka.Consumer, bookings BookingGateway, log *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{consumer: consumer, bookings: bookings, log: log}
}

// Start consumes payment events until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, func(ctx context.Context, event kafka.CloudEvent) error {
		if event.Type != EventPaymentSettled {
			return nil
		}

		var data PaymentSettledData
		if err := event.ParseData(&data); err != nil {
			return err
		}

		bookingID, err := uuid.Parse(data.BookingID)
		if err != nil {
			c.log.Warn("payment event with invalid booking id",
				zap.String("booking_id", data.BookingID),
			)
			return nil
		}

		c.log.Info("payment settled",
			zap.String("booking_id", data.BookingID),
			zap.Float64("amount", data.Amount),
		)
		return c.bookings.ApplyPaymentSettlement(ctx, bookingID, data.Settled)
	})
}
