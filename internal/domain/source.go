package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// AccountType is the kind of ledger account
type AccountType string

const (
	AccountTypeChecking     AccountType = "checking"
	AccountTypeSavings      AccountType = "savings"
	AccountTypeInvestment   AccountType = "investment"
	AccountTypeCreditCard   AccountType = "credit_card"
	AccountTypeLineOfCredit AccountType = "line_of_credit"
)

// IsLiability reports whether accounts of this type are debts
func (t AccountType) IsLiability() bool {
	return t == AccountTypeCreditCard || t == AccountTypeLineOfCredit
}

// DebtRecordStatus is the lifecycle state of a standalone debt record
type DebtRecordStatus string

const (
	DebtStatusActive  DebtRecordStatus = "active"
	DebtStatusPaidOff DebtRecordStatus = "paid_off"
	DebtStatusClosed  DebtRecordStatus = "closed"
)

// LiabilityAccount is a ledger account row as fetched for a household.
// Balance is the amount owed, in cents.
type LiabilityAccount struct {
	ID                       uuid.UUID
	HouseholdID              uuid.UUID
	Name                     string
	Type                     AccountType
	IsClosed                 bool
	Balance                  money.Cents
	OriginalBalance          money.Cents // zero when unknown
	MinimumPayment           money.Cents
	AdditionalMonthlyPayment money.Cents
	InterestRate             decimal.Decimal
	CompoundingFrequency     string
	BillingCycleDays         *int
}

// DebtBill is a recurring bill row. Only bills flagged IsDebt are debts.
// Amount is the periodic bill amount and acts as the minimum payment.
type DebtBill struct {
	ID                       uuid.UUID
	HouseholdID              uuid.UUID
	Name                     string
	IsDebt                   bool
	IsActive                 bool
	Amount                   money.Cents
	RemainingBalance         money.Cents
	OriginalBalance          money.Cents
	AdditionalMonthlyPayment money.Cents
	InterestRate             decimal.Decimal
	LoanType                 string
	CompoundingFrequency     string
	BillingCycleDays         *int
	LinkedAccountID          *uuid.UUID // set when the bill pays down a liability account
}

// DebtRecord is a standalone debt row
type DebtRecord struct {
	ID                       uuid.UUID
	HouseholdID              uuid.UUID
	Name                     string
	Status                   DebtRecordStatus
	RemainingBalance         money.Cents
	OriginalBalance          money.Cents
	MinimumPayment           money.Cents
	AdditionalMonthlyPayment money.Cents
	InterestRate             decimal.Decimal
	LoanType                 string
	CompoundingFrequency     string
	BillingCycleDays         *int
}

// PaymentEvent is a recorded payment row. DebtID refers to the source record's ID.
type PaymentEvent struct {
	ID              uuid.UUID
	DebtID          uuid.UUID
	Date            time.Time
	PrincipalAmount money.Cents
}
