package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// Fixed UUIDs for the demo household and its debts
var (
	DEMO_HOUSEHOLD    = uuid.MustParse("00000000-0000-0000-0000-0000000000d0")
	DEMO_CHECKING     = uuid.MustParse("00000000-0000-0000-0000-0000000000d1")
	DEMO_CARD         = uuid.MustParse("00000000-0000-0000-0000-0000000000d2")
	DEMO_CARD_BILL    = uuid.MustParse("00000000-0000-0000-0000-0000000000d3")
	DEMO_CAR_LOAN     = uuid.MustParse("00000000-0000-0000-0000-0000000000d4")
	DEMO_STREAMING    = uuid.MustParse("00000000-0000-0000-0000-0000000000d5")
	DEMO_STUDENT_LOAN = uuid.MustParse("00000000-0000-0000-0000-0000000000d6")
)

// DemoPaymentMonths is how many months of payment history are seeded
const DemoPaymentMonths = 12

type HouseholdWriter interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, id uuid.UUID, name string) error
}

type AccountWriter interface {
	Create(ctx context.Context, acc *domain.LiabilityAccount) error
}

type BillWriter interface {
	Create(ctx context.Context, bill *domain.DebtBill) error
}

type DebtWriter interface {
	Create(ctx context.Context, rec *domain.DebtRecord) error
}

type PaymentWriter interface {
	Create(ctx context.Context, householdID uuid.UUID, ev *domain.PaymentEvent) error
}

type SettingsWriter interface {
	Save(ctx context.Context, householdID uuid.UUID, raw *domain.RawStrategySettings) error
}

// Writers groups the stores the demo seeder writes through
type Writers struct {
	Households HouseholdWriter
	Accounts   AccountWriter
	Bills      BillWriter
	Debts      DebtWriter
	Payments   PaymentWriter
	Settings   SettingsWriter
}

// DemoSeeder creates a demo household covering every debt source
type DemoSeeder struct {
	w   Writers
	now func() time.Time
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(w Writers) *DemoSeeder {
	return &DemoSeeder{w: w, now: time.Now}
}

// Seed writes the demo household unless it already exists.
// It reports whether anything was written.
func (s *DemoSeeder) Seed(ctx context.Context) (bool, error) {
	exists, err := s.w.Households.Exists(ctx, DEMO_HOUSEHOLD)
	if err != nil {
		return false, fmt.Errorf("check demo household: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := s.w.Households.Create(ctx, DEMO_HOUSEHOLD, "Demo Household"); err != nil {
		return false, fmt.Errorf("create demo household: %w", err)
	}

	for _, acc := range demoAccounts() {
		if err := s.w.Accounts.Create(ctx, &acc); err != nil {
			return false, fmt.Errorf("create account %s: %w", acc.Name, err)
		}
	}
	for _, bill := range demoBills() {
		if err := s.w.Bills.Create(ctx, &bill); err != nil {
			return false, fmt.Errorf("create bill %s: %w", bill.Name, err)
		}
	}
	for _, rec := range demoDebts() {
		if err := s.w.Debts.Create(ctx, &rec); err != nil {
			return false, fmt.Errorf("create debt %s: %w", rec.Name, err)
		}
	}
	for _, ev := range demoPayments(s.now()) {
		if err := s.w.Payments.Create(ctx, DEMO_HOUSEHOLD, &ev); err != nil {
			return false, fmt.Errorf("create payment %s: %w", ev.Date.Format(time.DateOnly), err)
		}
	}

	// first-generation columns only, so the legacy settings fallback is exercised
	strategy, extra := "snowball", "150,00"
	if err := s.w.Settings.Save(ctx, DEMO_HOUSEHOLD, &domain.RawStrategySettings{
		DebtStrategy:     &strategy,
		DebtExtraPayment: &extra,
	}); err != nil {
		return false, fmt.Errorf("save demo settings: %w", err)
	}

	return true, nil
}

func demoAccounts() []domain.LiabilityAccount {
	cycle := 30
	return []domain.LiabilityAccount{
		{
			ID:          DEMO_CHECKING,
			HouseholdID: DEMO_HOUSEHOLD,
			Name:        "Everyday Checking",
			Type:        domain.AccountTypeChecking,
			Balance:     money.MustParse("2500.00"),
		},
		{
			ID:                   DEMO_CARD,
			HouseholdID:          DEMO_HOUSEHOLD,
			Name:                 "Rewards Visa",
			Type:                 domain.AccountTypeCreditCard,
			Balance:              money.MustParse("3420.00"),
			OriginalBalance:      money.MustParse("5200.00"),
			MinimumPayment:       money.MustParse("103.00"),
			InterestRate:         decimal.RequireFromString("22.99"),
			CompoundingFrequency: string(domain.CompoundingDaily),
			BillingCycleDays:     &cycle,
		},
	}
}

func demoBills() []domain.DebtBill {
	return []domain.DebtBill{
		{
			// pays down the Visa account and is dropped during normalization
			ID:               DEMO_CARD_BILL,
			HouseholdID:      DEMO_HOUSEHOLD,
			Name:             "Visa Payment",
			IsDebt:           true,
			IsActive:         true,
			Amount:           money.MustParse("103.00"),
			RemainingBalance: money.MustParse("3420.00"),
			InterestRate:     decimal.RequireFromString("22.99"),
			LinkedAccountID:  &DEMO_CARD,
		},
		{
			ID:                   DEMO_CAR_LOAN,
			HouseholdID:          DEMO_HOUSEHOLD,
			Name:                 "Car Loan",
			IsDebt:               true,
			IsActive:             true,
			Amount:               money.MustParse("310.00"),
			RemainingBalance:     money.MustParse("8400.00"),
			OriginalBalance:      money.MustParse("15000.00"),
			InterestRate:         decimal.RequireFromString("6.5"),
			LoanType:             string(domain.LoanTypeInstallment),
			CompoundingFrequency: string(domain.CompoundingMonthly),
		},
		{
			ID:          DEMO_STREAMING,
			HouseholdID: DEMO_HOUSEHOLD,
			Name:        "Streaming",
			IsActive:    true,
			Amount:      money.MustParse("15.99"),
		},
	}
}

func demoDebts() []domain.DebtRecord {
	return []domain.DebtRecord{
		{
			ID:               DEMO_STUDENT_LOAN,
			HouseholdID:      DEMO_HOUSEHOLD,
			Name:             "Student Loan",
			Status:           domain.DebtStatusActive,
			RemainingBalance: money.MustParse("12000.00"),
			OriginalBalance:  money.MustParse("20000.00"),
			MinimumPayment:   money.MustParse("130.00"),
			InterestRate:     decimal.RequireFromString("4.2"),
			LoanType:         string(domain.LoanTypeInstallment),
		},
	}
}

// demoPayments returns one payment per debt per month for the last
// DemoPaymentMonths months, oldest first
func demoPayments(now time.Time) []domain.PaymentEvent {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	principal := []struct {
		debt   uuid.UUID
		amount money.Cents
	}{
		{DEMO_CARD, money.MustParse("40.00")},
		{DEMO_CAR_LOAN, money.MustParse("260.00")},
		{DEMO_STUDENT_LOAN, money.MustParse("90.00")},
	}

	events := make([]domain.PaymentEvent, 0, DemoPaymentMonths*len(principal))
	for m := DemoPaymentMonths; m >= 1; m-- {
		date := domain.AddMonthsClamped(today, -m)
		for i, p := range principal {
			events = append(events, domain.PaymentEvent{
				ID:              demoPaymentID(m, i),
				DebtID:          p.debt,
				Date:            date,
				PrincipalAmount: p.amount,
			})
		}
	}
	return events
}

// demoPaymentID derives a stable ID from the month offset and debt slot
func demoPaymentID(month, slot int) uuid.UUID {
	return uuid.NewSHA1(DEMO_HOUSEHOLD, []byte(fmt.Sprintf("payment-%d-%d", month, slot)))
}
