package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
)

// Vehicle is the aggregate root for a rentable car in the fleet.
type Vehicle struct {
	id               uuid.UUID
	brand            string
	model            string
	plateNumber      string
	year             int
	rateCard         pricing.RateCard
	includedKmPerDay float64
	available        bool
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewVehicle creates a new vehicle with validated fields. A vehicle must
// offer at least one rental mode on its rate card.
func NewVehicle(
	brand, model, plateNumber string,
	year int,
	rateCard pricing.RateCard,
	includedKmPerDay float64,
) (*Vehicle, error) {
	if brand == "" || model == "" {
		return nil, fmt.Errorf("vehicle brand and model are required")
	}
	if plateNumber == "" {
		return nil, fmt.Errorf("plate number is required")
	}
	if rateCard.PerHour == nil && rateCard.PerKm == nil && rateCard.PerDay == nil {
		return nil, fmt.Errorf("rate card must offer at least one rental mode")
	}
	if err := validateRateCard(rateCard); err != nil {
		return nil, err
	}
	if includedKmPerDay < 0 {
		return nil, fmt.Errorf("included km per day cannot be negative")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:               uuid.New(),
		brand:            brand,
		model:            model,
		plateNumber:      plateNumber,
		year:             year,
		rateCard:         rateCard,
		includedKmPerDay: includedKmPerDay,
		available:        true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	brand, model, plateNumber string,
	year int,
	rateCard pricing.RateCard,
	includedKmPerDay float64,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:               id,
		brand:            brand,
		model:            model,
		plateNumber:      plateNumber,
		year:             year,
		rateCard:         rateCard,
		includedKmPerDay: includedKmPerDay,
		available:        available,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func validateRateCard(card pricing.RateCard) error {
	for _, r := range []*float64{card.PerHour, card.PerKm, card.PerDay} {
		if r != nil && *r < 0 {
			return fmt.Errorf("rates cannot be negative")
		}
	}
	return nil
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID              { return v.id }
func (v *Vehicle) Brand() string              { return v.brand }
func (v *Vehicle) Model() string              { return v.model }
func (v *Vehicle) PlateNumber() string        { return v.plateNumber }
func (v *Vehicle) Year() int                  { return v.year }
func (v *Vehicle) RateCard() pricing.RateCard { return v.rateCard }
func (v *Vehicle) IncludedKmPerDay() float64  { return v.includedKmPerDay }
func (v *Vehicle) IsAvailable() bool          { return v.available }
func (v *Vehicle) Version() int64             { return v.version }
func (v *Vehicle) CreatedAt() time.Time       { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time       { return v.updatedAt }

// --- Behavior ---

// UpdateRateCard replaces the vehicle's rate card. Existing bookings keep
// the prices they were quoted at.
func (v *Vehicle) UpdateRateCard(card pricing.RateCard) error {
	if card.PerHour == nil && card.PerKm == nil && card.PerDay == nil {
		return fmt.Errorf("rate card must offer at least one rental mode")
	}
	if err := validateRateCard(card); err != nil {
		return err
	}
	v.rateCard = card
	v.version++
	v.updatedAt = time.Now().UTC()
	return nil
}

// SetAvailability flips the administrative availability override. An
// unavailable vehicle cannot take new bookings regardless of overlaps.
func (v *Vehicle) SetAvailability(available bool) {
	v.available = available
	v.version++
	v.updatedAt = time.Now().UTC()
}

// UpdateDetails applies partial updates to the vehicle description.
func (v *Vehicle) UpdateDetails(brand, model, plateNumber string, year int, includedKmPerDay float64) {
	if brand != "" {
		v.brand = brand
	}
	if model != "" {
		v.model = model
	}
	if plateNumber != "" {
		v.plateNumber = plateNumber
	}
	if year > 0 {
		v.year = year
	}
	if includedKmPerDay > 0 {
		v.includedKmPerDay = includedKmPerDay
	}
	v.version++
	v.updatedAt = time.Now().UTC()
}
