package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDebt() Debt {
	return Debt{
		ID:                   uuid.New(),
		Name:                 "Visa",
		RemainingBalance:     100000,
		OriginalBalance:      150000,
		MinimumPayment:       5000,
		InterestRate:         decimal.NewFromInt(24),
		LoanType:             LoanTypeRevolving,
		CompoundingFrequency: CompoundingMonthly,
		Source:               SourceAccount,
	}
}

func TestDebt_Validate(t *testing.T) {
	zero := 0
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(d *Debt)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid debt should pass",
			mutate: func(d *Debt) {},
		},
		{
			name:    "negative balance should fail",
			mutate:  func(d *Debt) { d.RemainingBalance = -1 },
			wantErr: true,
			errMsg:  "remaining_balance: must not be negative",
		},
		{
			name:    "original below remaining should fail",
			mutate:  func(d *Debt) { d.OriginalBalance = 10 },
			wantErr: true,
			errMsg:  "original_balance: must be at least the remaining balance",
		},
		{
			name:    "negative rate should fail",
			mutate:  func(d *Debt) { d.InterestRate = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "interest_rate: must not be negative",
		},
		{
			name:    "unknown compounding should fail",
			mutate:  func(d *Debt) { d.CompoundingFrequency = "hourly" },
			wantErr: true,
			errMsg:  "unknown compounding frequency",
		},
		{
			name:    "empty loan type should fail",
			mutate:  func(d *Debt) { d.LoanType = "" },
			wantErr: true,
			errMsg:  "loan_type",
		},
		{
			name:    "zero billing cycle should fail",
			mutate:  func(d *Debt) { d.BillingCycleDays = &zero },
			wantErr: true,
			errMsg:  "billing_cycle_days: must be positive when set",
		},
		{
			name:    "undated payment should fail",
			mutate:  func(d *Debt) { d.Payments = []Payment{{PrincipalAmount: 100}} },
			wantErr: true,
			errMsg:  "payments[0].date: must be set",
		},
		{
			name: "out of order payments should fail",
			mutate: func(d *Debt) {
				d.Payments = []Payment{
					{Date: jan.AddDate(0, 1, 0), PrincipalAmount: 100},
					{Date: jan, PrincipalAmount: 100},
				}
			},
			wantErr: true,
			errMsg:  "payments must be chronological",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDebt()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDebts_CollectsAllIssues(t *testing.T) {
	a := validDebt()
	a.RemainingBalance = -5
	b := validDebt()
	b.MinimumPayment = -1
	dup := validDebt()
	dup.ID = b.ID

	err := ValidateDebts([]Debt{a, b, dup})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Issues))
	for _, issue := range ve.Issues {
		fields = append(fields, issue.Field)
	}
	assert.Contains(t, fields, "remaining_balance")
	assert.Contains(t, fields, "minimum_payment")
	assert.Contains(t, fields, "id")
}

func TestDebt_ScheduledPayment(t *testing.T) {
	d := validDebt()
	d.AdditionalMonthlyPayment = 1000
	assert.Equal(t, int64(6000), int64(d.ScheduledPayment()))
	assert.False(t, d.IsPaidOff())
	d.RemainingBalance = 0
	assert.True(t, d.IsPaidOff())
}

func TestCompoundingFrequency_PeriodsPerYear(t *testing.T) {
	assert.Equal(t, 365, CompoundingDaily.PeriodsPerYear())
	assert.Equal(t, 12, CompoundingMonthly.PeriodsPerYear())
	assert.Equal(t, 4, CompoundingQuarterly.PeriodsPerYear())
	assert.Equal(t, 1, CompoundingAnnually.PeriodsPerYear())

	c, err := ParseCompoundingFrequency(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, CompoundingAnnually, c)
}
