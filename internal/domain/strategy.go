package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// Method is the payoff prioritization method
type Method string

const (
	MethodSnowball  Method = "snowball"  // lowest balance first
	MethodAvalanche Method = "avalanche" // highest interest rate first
)

// PaymentFrequency is how often the household makes payments. It sets the
// simulation period length and is independent of compounding.
type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// StrategySettings is the canonical settings shape the engine consumes
type StrategySettings struct {
	ExtraMonthlyPayment money.Cents // shared budget concentrated on the focus debt
	Method              Method
	PaymentFrequency    PaymentFrequency
}

// Clamped returns a copy with out-of-range operational values pulled into range.
// A negative extra payment becomes zero; empty enums take their defaults.
func (s StrategySettings) Clamped() StrategySettings {
	s.ExtraMonthlyPayment = s.ExtraMonthlyPayment.ClampZero()
	if s.Method == "" {
		s.Method = MethodAvalanche
	}
	if s.PaymentFrequency == "" {
		s.PaymentFrequency = FrequencyMonthly
	}
	return s
}

// Validate rejects unknown methods and frequencies
func (s StrategySettings) Validate() error {
	var issues []Issue
	if _, err := ParseMethod(string(s.Method)); err != nil {
		issues = append(issues, Issue{Field: "method", Message: err.Error()})
	}
	if _, err := ParsePaymentFrequency(string(s.PaymentFrequency)); err != nil {
		issues = append(issues, Issue{Field: "payment_frequency", Message: err.Error()})
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ParseMethod parses a payoff method, case-insensitively. Empty input returns "".
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case MethodSnowball:
		return MethodSnowball, nil
	case MethodAvalanche:
		return MethodAvalanche, nil
	}
	return "", fmt.Errorf("unknown payoff method %q", s)
}

// ParsePaymentFrequency parses a payment frequency, case-insensitively.
// Empty input returns "".
func ParsePaymentFrequency(s string) (PaymentFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "weekly":
		return FrequencyWeekly, nil
	case "biweekly", "bi-weekly", "bi_weekly", "fortnightly":
		return FrequencyBiweekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	}
	return "", fmt.Errorf("unknown payment frequency %q", s)
}

// PeriodsPerYear returns the number of payment periods in a year
func (f PaymentFrequency) PeriodsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 26
	default:
		return 12
	}
}

// PeriodDate returns the date of period k relative to anchor (period 0).
// Negative k walks backwards. Monthly periods keep the anchor's day of month,
// clamped to the last day of shorter months.
func (f PaymentFrequency) PeriodDate(anchor time.Time, k int) time.Time {
	switch f {
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*k)
	case FrequencyBiweekly:
		return anchor.AddDate(0, 0, 14*k)
	default:
		return AddMonthsClamped(anchor, k)
	}
}

// Label formats a period date for display: "2026-10" for monthly periods,
// the full date otherwise.
func (f PaymentFrequency) Label(t time.Time) string {
	if f == FrequencyMonthly || f == "" {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// AddMonthsClamped adds n calendar months to t without overflowing into the
// following month (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// RawStrategySettings is the union of every stored settings generation.
// Nil fields were absent in the stored row.
type RawStrategySettings struct {
	// generation 2
	PayoffMethod      *string
	ExtraPaymentCents *int64
	PaymentFrequency  *string

	// generation 1
	DebtStrategy     *string
	DebtExtraPayment *string // decimal dollars, e.g. "150.00"
}
