package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vitesse-mobility/service-rental/internal/domain/settings"
)

// SettingsModel is the GORM mapping of the single-row platform_settings table.
type SettingsModel struct {
	ID                      int     `gorm:"primaryKey"`
	TaxPercentage           float64 `gorm:"type:numeric(5,2);not null"`
	Currency                string  `gorm:"type:varchar(3);not null"`
	YoungDriverMinAge       int     `gorm:"not null"`
	YoungDriverSurchargePct float64 `gorm:"type:numeric(5,2);not null"`
	UpdatedAt               time.Time
}

// TableName overrides the GORM default.
func (SettingsModel) TableName() string {
	return "platform_settings"
}

// The settings row is a singleton keyed by a fixed ID.
const settingsRowID = 1

// SettingsRepository implements settings.Store over PostgreSQL.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a settings repository.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the current platform settings. A missing row falls back to the
// zero-tax defaults so a fresh database still serves quotes.
func (r *SettingsRepository) Get(ctx context.Context) (settings.PlatformSettings, error) {
	var m SettingsModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.PlatformSettings{Currency: "USD"}, nil
	}
	if err != nil {
		return settings.PlatformSettings{}, err
	}
	return settings.PlatformSettings{
		TaxPercentage:           m.TaxPercentage,
		Currency:                m.Currency,
		YoungDriverMinAge:       m.YoungDriverMinAge,
		YoungDriverSurchargePct: m.YoungDriverSurchargePct,
		UpdatedAt:               m.UpdatedAt,
	}, nil
}

// Update upserts the platform settings row.
func (r *SettingsRepository) Update(ctx context.Context, s settings.PlatformSettings) error {
	m := SettingsModel{
		ID:                      settingsRowID,
		TaxPercentage:           s.TaxPercentage,
		Currency:                s.Currency,
		YoungDriverMinAge:       s.YoungDriverMinAge,
		YoungDriverSurchargePct: s.YoungDriverSurchargePct,
		UpdatedAt:               time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Save(&m).Error
}
