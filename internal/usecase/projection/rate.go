package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
)

// ratePlaces is the precision kept for per-period rates
const ratePlaces = 12

var hundred = decimal.NewFromInt(100)

// compoundingPeriodsPerYear returns how many times a year interest compounds.
// BillingCycleDays, when set, overrides the compounding frequency.
func compoundingPeriodsPerYear(d domain.Debt) float64 {
	if d.BillingCycleDays != nil && *d.BillingCycleDays > 0 {
		return 365.0 / float64(*d.BillingCycleDays)
	}
	return float64(d.CompoundingFrequency.PeriodsPerYear())
}

// PeriodRate converts a debt's APR into the effective rate for one payment period.
//
// The compounding rate is APR / compounding periods per year. A payment period
// spans cpy/ppy compounding periods, so the effective rate is
//
//	(1 + APR/cpy)^(cpy/ppy) - 1
//
// When compounding and payment periods coincide the rate is exactly APR/ppy.
// The power is evaluated in float64 and converted back to a decimal rounded to
// 12 places; money itself never goes through floating point.
func PeriodRate(d domain.Debt, freq domain.PaymentFrequency) decimal.Decimal {
	if !d.InterestRate.IsPositive() {
		return decimal.Zero
	}

	apr := d.InterestRate.Div(hundred)
	ppy := float64(freq.PeriodsPerYear())
	cpy := compoundingPeriodsPerYear(d)

	if cpy == ppy {
		return apr.Div(decimal.NewFromFloat(ppy)).Round(ratePlaces)
	}

	compoundRate := apr.InexactFloat64() / cpy
	effective := math.Pow(1+compoundRate, cpy/ppy) - 1
	return decimal.NewFromFloat(effective).Round(ratePlaces)
}
