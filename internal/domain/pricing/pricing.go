// Package pricing holds the pure money math for rental quotes. Every
// function is deterministic and safe to call concurrently; all results are
// rounded to 2 decimal places, half up at the cent boundary.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vitesse-mobility/service-rental/internal/domain"
)

// RentalMode selects which rate on a vehicle's rate card a quote is based on.
type RentalMode string

const (
	ModeHour RentalMode = "HOUR"
	ModeKm   RentalMode = "KM"
	ModeDay  RentalMode = "DAY"
)

// IsValid returns true if the rental mode is recognized.
func (m RentalMode) IsValid() bool {
	switch m {
	case ModeHour, ModeKm, ModeDay:
		return true
	}
	return false
}

// RateCard is the set of prices a vehicle offers. A nil rate means the
// vehicle does not offer that rental mode.
type RateCard struct {
	PerHour *float64 `json:"price_per_hour,omitempty"`
	PerKm   *float64 `json:"price_per_km,omitempty"`
	PerDay  *float64 `json:"price_per_day,omitempty"`
}

// Breakdown is a price split into its tax-exclusive and tax parts.
type Breakdown struct {
	Base float64 `json:"base"`
	Tax  float64 `json:"tax"`
}

// Round2 rounds a monetary amount to 2 decimal places, half up.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// CalculateTax returns the tax owed on a tax-exclusive amount.
func CalculateTax(amount, taxPercentage float64) (float64, error) {
	if amount < 0 {
		return 0, domain.NewValidationError("amount cannot be negative")
	}
	if taxPercentage < 0 {
		return 0, domain.NewValidationError("tax percentage cannot be negative")
	}
	tax := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(taxPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	f, _ := tax.Float64()
	return f, nil
}

// CalculateTotal returns the tax-inclusive total for a base price and tax.
func CalculateTotal(base, tax float64) (float64, error) {
	if base < 0 || tax < 0 {
		return 0, domain.NewValidationError("base and tax cannot be negative")
	}
	total := decimal.NewFromFloat(base).Add(decimal.NewFromFloat(tax)).Round(2)
	f, _ := total.Float64()
	return f, nil
}

// CalculateBaseFromTotal splits a tax-inclusive total back into base and tax.
//
// The round trip through CalculateTax/CalculateTotal is approximate, not
// exact: two independent cent roundings are applied, so the recovered base
// may drift from the original by up to one cent.
func CalculateBaseFromTotal(total, taxPercentage float64) (Breakdown, error) {
	if total < 0 {
		return Breakdown{}, domain.NewValidationError("total cannot be negative")
	}
	if taxPercentage < 0 {
		return Breakdown{}, domain.NewValidationError("tax percentage cannot be negative")
	}
	divisor := decimal.NewFromInt(1).
		Add(decimal.NewFromFloat(taxPercentage).Div(decimal.NewFromInt(100)))
	base := decimal.NewFromFloat(total).DivRound(divisor, 2)
	tax := base.
		Mul(decimal.NewFromFloat(taxPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	b, _ := base.Float64()
	t, _ := tax.Float64()
	return Breakdown{Base: b, Tax: t}, nil
}

// CalculateRentalCost quotes the tax-exclusive cost of renting for the given
// quantity of hours, kilometers or days.
func CalculateRentalCost(mode RentalMode, quantity float64, card RateCard) (float64, error) {
	if !mode.IsValid() {
		return 0, domain.NewValidationError(fmt.Sprintf("unknown rental mode: %s", mode))
	}
	if quantity <= 0 {
		return 0, domain.NewValidationError("rental quantity must be positive")
	}

	var rate *float64
	switch mode {
	case ModeHour:
		rate = card.PerHour
	case ModeKm:
		rate = card.PerKm
	case ModeDay:
		rate = card.PerDay
	}
	if rate == nil {
		return 0, domain.NewRateUnavailableError(string(mode))
	}

	cost := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(*rate)).Round(2)
	f, _ := cost.Float64()
	return f, nil
}
