package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitesse-mobility/service-rental/internal/domain/photo"
)

// TripPhotoModel is the GORM mapping of the trip_photos table.
type TripPhotoModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	PhotoType  string    `gorm:"type:varchar(10);not null"`
	PhotoURL   string    `gorm:"not null"`
	Caption    string
	TakenAt    time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName overrides the GORM default.
func (TripPhotoModel) TableName() string {
	return "trip_photos"
}

// TripPhotoRepository implements photo.Repository over PostgreSQL.
type TripPhotoRepository struct {
	db *gorm.DB
}

// NewTripPhotoRepository creates a trip photo repository.
func NewTripPhotoRepository(db *gorm.DB) *TripPhotoRepository {
	return &TripPhotoRepository{db: db}
}

// Save inserts a new trip photo.
func (r *TripPhotoRepository) Save(ctx context.Context, p *photo.TripPhoto) error {
	return r.db.WithContext(ctx).Create(&TripPhotoModel{
		ID:         p.ID(),
		BookingID:  p.BookingID(),
		UploadedBy: p.UploadedBy(),
		PhotoType:  string(p.PhotoType()),
		PhotoURL:   p.PhotoURL(),
		Caption:    p.Caption(),
		TakenAt:    p.TakenAt(),
		CreatedAt:  p.CreatedAt(),
	}).Error
}

// FindByBookingID retrieves all photos for a booking, oldest first.
func (r *TripPhotoRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*photo.TripPhoto, error) {
	var models []TripPhotoModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("taken_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	photos := make([]*photo.TripPhoto, len(models))
	for i, m := range models {
		photos[i] = photo.Reconstruct(
			m.ID, m.BookingID, m.UploadedBy,
			photo.PhotoType(m.PhotoType),
			m.PhotoURL, m.Caption,
			m.TakenAt, m.CreatedAt,
		)
	}
	return photos, nil
}
