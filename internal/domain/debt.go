package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// LoanType controls whether the minimum payment follows the balance down
type LoanType string

const (
	LoanTypeRevolving   LoanType = "revolving"
	LoanTypeInstallment LoanType = "installment"
)

// CompoundingFrequency is how often interest is added to a balance
type CompoundingFrequency string

const (
	CompoundingDaily     CompoundingFrequency = "daily"
	CompoundingMonthly   CompoundingFrequency = "monthly"
	CompoundingQuarterly CompoundingFrequency = "quarterly"
	CompoundingAnnually  CompoundingFrequency = "annually"
)

// Source records where a canonical debt came from. Provenance only.
type Source string

const (
	SourceAccount Source = "account"
	SourceBill    Source = "bill"
	SourceDebt    Source = "debt"
)

// Payment is a recorded principal reduction for a debt
type Payment struct {
	Date            time.Time
	PrincipalAmount money.Cents
}

// Debt is the canonical shape every debt source is normalized into.
// Debts are immutable inputs to the engine.
type Debt struct {
	ID                       uuid.UUID
	Name                     string
	RemainingBalance         money.Cents
	OriginalBalance          money.Cents // used for "% paid off"
	MinimumPayment           money.Cents
	AdditionalMonthlyPayment money.Cents // standing per-debt extra, independent of the shared budget
	InterestRate             decimal.Decimal // APR in percent, 0 means interest-free
	LoanType                 LoanType
	CompoundingFrequency     CompoundingFrequency
	BillingCycleDays         *int // overrides the compounding period length when set
	Source                   Source
	Payments                 []Payment // chronological
}

// IsPaidOff reports whether the debt has nothing left to pay
func (d Debt) IsPaidOff() bool {
	return d.RemainingBalance <= 0
}

// ScheduledPayment is the debt's own per-period commitment (minimum + standing additional)
func (d Debt) ScheduledPayment() money.Cents {
	return d.MinimumPayment.Add(d.AdditionalMonthlyPayment)
}

// Validate checks the structural invariants of a canonical debt.
// Returns a *ValidationError listing every violation, or nil.
func (d Debt) Validate() error {
	issues := d.issues()
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func (d Debt) issues() []Issue {
	var issues []Issue
	add := func(field, msg string) {
		issues = append(issues, Issue{Source: d.Source, RecordID: d.ID.String(), Field: field, Message: msg})
	}

	if d.ID == uuid.Nil {
		add("id", "must be set")
	}
	if d.RemainingBalance < 0 {
		add("remaining_balance", "must not be negative")
	}
	if d.OriginalBalance < d.RemainingBalance {
		add("original_balance", "must be at least the remaining balance")
	}
	if d.MinimumPayment < 0 {
		add("minimum_payment", "must not be negative")
	}
	if d.AdditionalMonthlyPayment < 0 {
		add("additional_monthly_payment", "must not be negative")
	}
	if d.InterestRate.IsNegative() {
		add("interest_rate", "must not be negative")
	}
	if _, err := ParseLoanType(string(d.LoanType)); err != nil || d.LoanType == "" {
		add("loan_type", fmt.Sprintf("unknown loan type %q", d.LoanType))
	}
	if _, err := ParseCompoundingFrequency(string(d.CompoundingFrequency)); err != nil || d.CompoundingFrequency == "" {
		add("compounding_frequency", fmt.Sprintf("unknown compounding frequency %q", d.CompoundingFrequency))
	}
	if d.BillingCycleDays != nil && *d.BillingCycleDays <= 0 {
		add("billing_cycle_days", "must be positive when set")
	}
	for i, p := range d.Payments {
		if p.Date.IsZero() {
			add(fmt.Sprintf("payments[%d].date", i), "must be set")
		}
		if p.PrincipalAmount < 0 {
			add(fmt.Sprintf("payments[%d].principal_amount", i), "must not be negative")
		}
		if i > 0 && p.Date.Before(d.Payments[i-1].Date) {
			add(fmt.Sprintf("payments[%d].date", i), "payments must be chronological")
		}
	}
	return issues
}

// ValidateDebts validates every debt and rejects duplicate IDs.
// All problems are reported together in one *ValidationError.
func ValidateDebts(debts []Debt) error {
	var issues []Issue
	seen := make(map[uuid.UUID]bool, len(debts))
	for _, d := range debts {
		issues = append(issues, d.issues()...)
		if seen[d.ID] {
			issues = append(issues, Issue{Source: d.Source, RecordID: d.ID.String(), Field: "id", Message: "duplicate debt id"})
		}
		seen[d.ID] = true
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// ParseLoanType parses a loan type, case-insensitively. Empty input returns "".
func ParseLoanType(s string) (LoanType, error) {
	switch LoanType(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case LoanTypeRevolving:
		return LoanTypeRevolving, nil
	case LoanTypeInstallment:
		return LoanTypeInstallment, nil
	}
	return "", fmt.Errorf("unknown loan type %q", s)
}

// ParseCompoundingFrequency parses a compounding frequency, case-insensitively.
// Empty input returns "".
func ParseCompoundingFrequency(s string) (CompoundingFrequency, error) {
	switch CompoundingFrequency(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case CompoundingDaily:
		return CompoundingDaily, nil
	case CompoundingMonthly:
		return CompoundingMonthly, nil
	case CompoundingQuarterly:
		return CompoundingQuarterly, nil
	case CompoundingAnnually, "annual", "yearly":
		return CompoundingAnnually, nil
	}
	return "", fmt.Errorf("unknown compounding frequency %q", s)
}

// PeriodsPerYear returns the number of compounding periods in a year
func (c CompoundingFrequency) PeriodsPerYear() int {
	switch c {
	case CompoundingDaily:
		return 365
	case CompoundingQuarterly:
		return 4
	case CompoundingAnnually:
		return 1
	default:
		return 12
	}
}
