package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/booking"
	"github.com/vitesse-mobility/service-rental/internal/domain/photo"
)

// PhotoService manages trip condition photos. Return photos are the evidence
// backing damage fees charged at trip completion.
type PhotoService struct {
	photos   photo.Repository
	bookings booking.Repository
	log      *zap.Logger
}

// NewPhotoService wires the photo service.
func NewPhotoService(photos photo.Repository, bookings booking.Repository, log *zap.Logger) *PhotoService {
	return &PhotoService{photos: photos, bookings: bookings, log: log}
}

// AddPhotoInput carries a new trip photo.
type AddPhotoInput struct {
	BookingID  uuid.UUID
	UploadedBy uuid.UUID
	PhotoType  photo.PhotoType
	PhotoURL   string
	Caption    string
}

// AddPhoto attaches a condition photo to a booking. Pickup photos require a
// booking at or past CONFIRMED; return photos require ONGOING or COMPLETED.
func (s *PhotoService) AddPhoto(ctx context.Context, input AddPhotoInput) (*photo.TripPhoto, error) {
	b, err := s.bookings.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	switch input.PhotoType {
	case photo.PhotoTypePickup:
		if b.Status() != booking.StatusConfirmed && b.Status() != booking.StatusOngoing {
			return nil, domain.NewValidationError("pickup photos require a confirmed or ongoing booking")
		}
	case photo.PhotoTypeReturn:
		if b.Status() != booking.StatusOngoing && b.Status() != booking.StatusCompleted {
			return nil, domain.NewValidationError("return photos require an ongoing or completed booking")
		}
	}

	p, err := photo.NewTripPhoto(input.BookingID, input.UploadedBy, input.PhotoType, input.PhotoURL, input.Caption)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.photos.Save(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("trip photo added",
		zap.String("booking_id", input.BookingID.String()),
		zap.String("type", string(input.PhotoType)),
	)
	return p, nil
}

// ListPhotos returns all photos for a booking, oldest first.
func (s *PhotoService) ListPhotos(ctx context.Context, bookingID uuid.UUID) ([]*photo.TripPhoto, error) {
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.photos.FindByBookingID(ctx, bookingID)
}
