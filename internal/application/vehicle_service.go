package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/pricing"
	"github.com/vitesse-mobility/service-rental/internal/domain/vehicle"
)

// VehicleService manages the rentable fleet.
type VehicleService struct {
	vehicles vehicle.Repository
	log      *zap.Logger
}

// NewVehicleService wires the vehicle service.
func NewVehicleService(vehicles vehicle.Repository, log *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, log: log}
}

// CreateVehicleInput carries a new fleet vehicle.
type CreateVehicleInput struct {
	Brand            string
	Model            string
	PlateNumber      string
	Year             int
	RateCard         pricing.RateCard
	IncludedKmPerDay float64
}

// CreateVehicle adds a vehicle to the fleet.
func (s *VehicleService) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*vehicle.Vehicle, error) {
	v, err := vehicle.NewVehicle(
		input.Brand, input.Model, input.PlateNumber,
		input.Year, input.RateCard, input.IncludedKmPerDay,
	)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, err
	}

	s.log.Info("vehicle created",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("plate", v.PlateNumber()),
	)
	return v, nil
}

// GetVehicle retrieves a vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

// ListVehicles retrieves the fleet with pagination.
func (s *VehicleService) ListVehicles(ctx context.Context, availableOnly bool, page, limit int) (domain.PaginatedResult[*vehicle.Vehicle], error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.vehicles.ListAll(ctx, availableOnly, page, limit)
	if err != nil {
		return domain.PaginatedResult[*vehicle.Vehicle]{}, err
	}
	return domain.NewPaginatedResult(items, total, page, limit), nil
}

// UpdateVehicleInput carries partial updates to a vehicle's description.
type UpdateVehicleInput struct {
	Brand            string
	Model            string
	PlateNumber      string
	Year             int
	IncludedKmPerDay float64
}

// UpdateVehicle applies partial updates to a vehicle.
func (s *VehicleService) UpdateVehicle(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.UpdateDetails(input.Brand, input.Model, input.PlateNumber, input.Year, input.IncludedKmPerDay)
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateRateCard replaces the vehicle's rate card. Existing bookings keep the
// prices they were quoted at.
func (s *VehicleService) UpdateRateCard(ctx context.Context, id uuid.UUID, card pricing.RateCard) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.UpdateRateCard(card); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SetAvailability flips the administrative availability flag.
func (s *VehicleService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.SetAvailability(available)
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	s.log.Info("vehicle availability changed",
		zap.String("vehicle_id", v.ID().String()),
		zap.Bool("available", available),
	)
	return v, nil
}
