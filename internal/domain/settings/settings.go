// Package settings holds the platform-wide configuration that drives
// pricing. It is read on every calculation and mutated only by admins.
package settings

import (
	"context"
	"fmt"
	"time"
)

// PlatformSettings is the singleton platform configuration.
type PlatformSettings struct {
	TaxPercentage           float64   `json:"tax_percentage"`
	Currency                string    `json:"currency"`
	YoungDriverMinAge       int       `json:"young_driver_min_age"`
	YoungDriverSurchargePct float64   `json:"young_driver_surcharge_pct"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Validate checks the settings for admin updates.
func (s PlatformSettings) Validate() error {
	if s.TaxPercentage < 0 || s.TaxPercentage > 100 {
		return fmt.Errorf("tax percentage must be between 0 and 100")
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code")
	}
	if s.YoungDriverMinAge < 0 {
		return fmt.Errorf("young driver minimum age cannot be negative")
	}
	if s.YoungDriverSurchargePct < 0 {
		return fmt.Errorf("young driver surcharge cannot be negative")
	}
	return nil
}

// Store defines the persistence contract for platform settings.
// Implementations must return the current value on every Get; pricing never
// caches settings across requests.
type Store interface {
	// Get returns the current platform settings.
	Get(ctx context.Context) (PlatformSettings, error)

	// Update replaces the platform settings.
	Update(ctx context.Context, s PlatformSettings) error
}
