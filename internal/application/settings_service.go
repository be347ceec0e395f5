package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/vitesse-mobility/service-rental/internal/domain"
	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
)

// SettingsService manages the platform pricing settings.
type SettingsService struct {
	store settings.Store
	log   *zap.Logger
}

// NewSettingsService wires the settings service.
func NewSettingsService(store settings.Store, log *zap.Logger) *SettingsService {
	return &SettingsService{store: store, log: log}
}

// GetSettings returns the current platform settings.
func (s *SettingsService) GetSettings(ctx context.Context) (settings.PlatformSettings, error) {
	return s.store.Get(ctx)
}

// UpdateSettings validates and replaces the platform settings. Bookings
// already priced keep their quoted amounts.
func (s *SettingsService) UpdateSettings(ctx context.Context, ps settings.PlatformSettings) (settings.PlatformSettings, error) {
	if err := ps.Validate(); err != nil {
		return settings.PlatformSettings{}, domain.NewValidationError(err.Error())
	}
	if err := s.store.Update(ctx, ps); err != nil {
		return settings.PlatformSettings{}, err
	}

	s.log.Info("platform settings updated",
		zap.Float64("tax_percentage", ps.TaxPercentage),
		zap.String("currency", ps.Currency),
	)
	return s.store.Get(ctx)
}
