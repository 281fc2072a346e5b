// Package money provides fixed-point helpers for amounts held as integer cents.
//
// Every addition, subtraction, rate multiplication and split performed by the
// payoff engine goes through this package so that sums and comparisons are exact.
// Human-entered amounts and interest rates are handled with shopspring/decimal and
// rounded half away from zero (half-up for non-negative values) to whole cents.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string cannot be parsed
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is an amount of money in minor units
type Cents int64

// Zero is the zero amount
const Zero Cents = 0

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a decimal amount in major units (12.345) to cents,
// rounding half away from zero on the third decimal place.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Mul(hundred).IntPart())
}

// Parse converts a human-entered amount ("12.34", "12,34", " 7 ") to cents.
// A leading sign is accepted; callers decide whether negative values are allowed.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(d), nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic("money: cannot parse " + s)
	}
	return c
}

// Decimal returns the amount in major units
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimal places ("150.00")
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Add returns c + o
func (c Cents) Add(o Cents) Cents {
	return c + o
}

// Sub returns c - o
func (c Cents) Sub(o Cents) Cents {
	return c - o
}

// IsPositive reports whether c > 0
func (c Cents) IsPositive() bool {
	return c > 0
}

// ClampZero returns c, or zero when c is negative
func (c Cents) ClampZero() Cents {
	if c < 0 {
		return 0
	}
	return c
}

// Sum adds any number of amounts
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// Min returns the smaller of a and b
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b
func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

// MulRate multiplies an amount by a rate and rounds half away from zero to cents.
// Used for interest accrual: MulRate(balance, periodRate).
func MulRate(c Cents, rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// MulRatioCeil returns ceil(c * num / den) for non-negative inputs. Used where a
// proportional amount must never be rounded below its exact value.
func MulRatioCeil(c, num, den Cents) Cents {
	if den == 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(c)).Mul(decimal.NewFromInt(int64(num))).Div(decimal.NewFromInt(int64(den)))
	return Cents(v.Ceil().IntPart())
}

// Split divides total across n buckets. Each bucket receives the truncated
// quotient and the remainder cents are handed out one per bucket starting with
// the first, so the buckets always sum to total exactly.
func Split(total Cents, n int) []Cents {
	if n <= 0 {
		return nil
	}
	parts := make([]Cents, n)
	quotient := total / Cents(n)
	remainder := total % Cents(n)

	step := Cents(1)
	if remainder < 0 {
		step = -1
		remainder = -remainder
	}
	for i := range parts {
		parts[i] = quotient
		if Cents(i) < remainder {
			parts[i] += step
		}
	}
	return parts
}

// Percent returns part / whole * 100 rounded to two decimal places.
// A zero whole yields zero.
func Percent(part, whole Cents) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2)
}
