package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/vehicle"
)

// VehicleModel is the GORM mapping of the vehicles table.
type VehicleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Brand       string    `gorm:"not null"`
	Model       string    `gorm:"not null"`
	PlateNumber string    `gorm:"uniqueIndex;not null"`
	Year        int

	PricePerHour *float64 `gorm:"type:numeric(10,2)"`
	PricePerKm   *float64 `gorm:"type:numeric(10,2)"`
	PricePerDay  *float64 `gorm:"type:numeric(10,2)"`

	IncludedKmPerDay float64 `gorm:"type:numeric(10,2);not null;default:0"`
	Available        bool    `gorm:"not null;default:true"`

	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the GORM default.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// VehicleRepository implements vehicle.Repository over PostgreSQL.
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a vehicle repository.
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func toVehicleModel(v *vehicle.Vehicle) *VehicleModel {
	card := v.RateCard()
	return &VehicleModel{
		ID:               v.ID(),
		Brand:            v.Brand(),
		Model:            v.Model(),
		PlateNumber:      v.PlateNumber(),
		Year:             v.Year(),
		PricePerHour:     card.PerHour,
		PricePerKm:       card.PerKm,
		PricePerDay:      card.PerDay,
		IncludedKmPerDay: v.IncludedKmPerDay(),
		Available:        v.IsAvailable(),
		Version:          v.Version(),
		CreatedAt:        v.CreatedAt(),
		UpdatedAt:        v.UpdatedAt(),
	}
}

func toVehicleDomain(m *VehicleModel) *vehicle.Vehicle {
	return vehicle.Reconstruct(
		m.ID,
		m.Brand, m.Model, m.PlateNumber,
		m.Year,
		pricing.RateCard{
			PerHour: m.PricePerHour,
			PerKm:   m.PricePerKm,
			PerDay:  m.PricePerDay,
		},
		m.IncludedKmPerDay,
		m.Available,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

// FindByID retrieves a vehicle by ID.
func (r *VehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	var m VehicleModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("vehicle", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toVehicleDomain(&m), nil
}

// ListAll retrieves vehicles with pagination.
func (r *VehicleRepository) ListAll(ctx context.Context, availableOnly bool, page, limit int) ([]*vehicle.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&VehicleModel{})
	if availableOnly {
		query = query.Where("available = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []VehicleModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	vehicles := make([]*vehicle.Vehicle, len(models))
	for i := range models {
		vehicles[i] = toVehicleDomain(&models[i])
	}
	return vehicles, total, nil
}

// Save inserts a new vehicle.
func (r *VehicleRepository) Save(ctx context.Context, v *vehicle.Vehicle) error {
	return r.db.WithContext(ctx).Create(toVehicleModel(v)).Error
}

// Update persists the vehicle. The aggregate bumps its own version on every
// mutation, so the previous version identifies the row we read.
func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	m := toVehicleModel(v)

	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("vehicle was modified concurrently")
	}
	return nil
}
