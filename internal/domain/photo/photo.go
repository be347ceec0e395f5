package photo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PhotoType represents the type of trip condition photo.
type PhotoType string

const (
	PhotoTypePickup PhotoType = "pickup"
	PhotoTypeReturn PhotoType = "return"
)

// IsValid returns true if the photo type is recognized.
func (p PhotoType) IsValid() bool {
	return p == PhotoTypePickup || p == PhotoTypeReturn
}

// TripPhoto is the aggregate root for vehicle condition photos taken at
// pickup and return. Return photos are the evidence backing damage fees.
type TripPhoto struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	uploadedBy uuid.UUID
	photoType  PhotoType
	photoURL   string
	caption    string
	takenAt    time.Time
	createdAt  time.Time
}

// NewTripPhoto creates a new trip photo.
func NewTripPhoto(bookingID, uploadedBy uuid.UUID, photoType PhotoType, photoURL, caption string) (*TripPhoto, error) {
	if !photoType.IsValid() {
		return nil, fmt.Errorf("invalid photo type: %s", photoType)
	}
	if photoURL == "" {
		return nil, fmt.Errorf("photo URL is required")
	}

	now := time.Now().UTC()
	return &TripPhoto{
		id:         uuid.New(),
		bookingID:  bookingID,
		uploadedBy: uploadedBy,
		photoType:  photoType,
		photoURL:   photoURL,
		caption:    caption,
		takenAt:    now,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a TripPhoto from persistence.
func Reconstruct(id, bookingID, uploadedBy uuid.UUID, photoType PhotoType, photoURL, caption string, takenAt, createdAt time.Time) *TripPhoto {
	return &TripPhoto{
		id:         id,
		bookingID:  bookingID,
		uploadedBy: uploadedBy,
		photoType:  photoType,
		photoURL:   photoURL,
		caption:    caption,
		takenAt:    takenAt,
		createdAt:  createdAt,
	}
}

// Getters.
func (p *TripPhoto) ID() uuid.UUID         { return p.id }
func (p *TripPhoto) BookingID() uuid.UUID  { return p.bookingID }
func (p *TripPhoto) UploadedBy() uuid.UUID { return p.uploadedBy }
func (p *TripPhoto) PhotoType() PhotoType  { return p.photoType }
func (p *TripPhoto) PhotoURL() string      { return p.photoURL }
func (p *TripPhoto) Caption() string       { return p.caption }
func (p *TripPhoto) TakenAt() time.Time    { return p.takenAt }
func (p *TripPhoto) CreatedAt() time.Time  { return p.createdAt }
