package seeder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-payoff/internal/adapter/cache"
	"github.com/simaogato/wealthflow-payoff/internal/adapter/repository/sqlstore"
	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/payoff"
)

var seedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type MockHouseholdWriter struct{ mock.Mock }

func (m *MockHouseholdWriter) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockHouseholdWriter) Create(ctx context.Context, id uuid.UUID, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

type MockAccountWriter struct{ mock.Mock }

func (m *MockAccountWriter) Create(ctx context.Context, acc *domain.LiabilityAccount) error {
	return m.Called(ctx, acc).Error(0)
}

type MockBillWriter struct{ mock.Mock }

func (m *MockBillWriter) Create(ctx context.Context, bill *domain.DebtBill) error {
	return m.Called(ctx, bill).Error(0)
}

type MockDebtWriter struct{ mock.Mock }

func (m *MockDebtWriter) Create(ctx context.Context, rec *domain.DebtRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type MockPaymentWriter struct{ mock.Mock }

func (m *MockPaymentWriter) Create(ctx context.Context, householdID uuid.UUID, ev *domain.PaymentEvent) error {
	return m.Called(ctx, householdID, ev).Error(0)
}

type MockSettingsWriter struct{ mock.Mock }

func (m *MockSettingsWriter) Save(ctx context.Context, householdID uuid.UUID, raw *domain.RawStrategySettings) error {
	return m.Called(ctx, householdID, raw).Error(0)
}

type mocks struct {
	households *MockHouseholdWriter
	accounts   *MockAccountWriter
	bills      *MockBillWriter
	debts      *MockDebtWriter
	payments   *MockPaymentWriter
	settings   *MockSettingsWriter
}

func newMockSeeder() (*DemoSeeder, mocks) {
	m := mocks{
		households: new(MockHouseholdWriter),
		accounts:   new(MockAccountWriter),
		bills:      new(MockBillWriter),
		debts:      new(MockDebtWriter),
		payments:   new(MockPaymentWriter),
		settings:   new(MockSettingsWriter),
	}
	s := NewDemoSeeder(Writers{
		Households: m.households,
		Accounts:   m.accounts,
		Bills:      m.bills,
		Debts:      m.debts,
		Payments:   m.payments,
		Settings:   m.settings,
	})
	s.now = func() time.Time { return seedNow }
	return s, m
}

func TestDemoSeeder_Seed_HouseholdMissing(t *testing.T) {
	ctx := context.Background()
	s, m := newMockSeeder()

	m.households.On("Exists", ctx, DEMO_HOUSEHOLD).Return(false, nil)
	m.households.On("Create", ctx, DEMO_HOUSEHOLD, "Demo Household").Return(nil)
	m.accounts.On("Create", ctx, mock.AnythingOfType("*domain.LiabilityAccount")).Return(nil)
	m.bills.On("Create", ctx, mock.AnythingOfType("*domain.DebtBill")).Return(nil)
	m.debts.On("Create", ctx, mock.MatchedBy(func(rec *domain.DebtRecord) bool {
		return rec.ID == DEMO_STUDENT_LOAN && rec.Status == domain.DebtStatusActive
	})).Return(nil)
	m.payments.On("Create", ctx, DEMO_HOUSEHOLD, mock.AnythingOfType("*domain.PaymentEvent")).Return(nil)
	m.settings.On("Save", ctx, DEMO_HOUSEHOLD, mock.MatchedBy(func(raw *domain.RawStrategySettings) bool {
		return raw.PayoffMethod == nil && *raw.DebtStrategy == "snowball" && *raw.DebtExtraPayment == "150,00"
	})).Return(nil)

	seeded, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	m.households.AssertExpectations(t)
	m.accounts.AssertNumberOfCalls(t, "Create", 2)
	m.bills.AssertNumberOfCalls(t, "Create", 3)
	m.debts.AssertNumberOfCalls(t, "Create", 1)
	m.payments.AssertNumberOfCalls(t, "Create", DemoPaymentMonths*3)
	m.settings.AssertExpectations(t)
}

func TestDemoSeeder_Seed_HouseholdExists(t *testing.T) {
	ctx := context.Background()
	s, m := newMockSeeder()

	m.households.On("Exists", ctx, DEMO_HOUSEHOLD).Return(true, nil)

	seeded, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	m.households.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	m.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.settings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestDemoSeeder_Seed_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("exists check fails", func(t *testing.T) {
		s, m := newMockSeeder()
		m.households.On("Exists", ctx, DEMO_HOUSEHOLD).Return(false, errors.New("db down"))

		_, err := s.Seed(ctx)
		assert.ErrorContains(t, err, "check demo household: db down")
	})

	t.Run("account create fails", func(t *testing.T) {
		s, m := newMockSeeder()
		m.households.On("Exists", ctx, DEMO_HOUSEHOLD).Return(false, nil)
		m.households.On("Create", ctx, DEMO_HOUSEHOLD, "Demo Household").Return(nil)
		m.accounts.On("Create", ctx, mock.Anything).Return(errors.New("constraint"))

		seeded, err := s.Seed(ctx)
		assert.False(t, seeded)
		assert.ErrorContains(t, err, "create account Everyday Checking: constraint")
		m.bills.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDemoPayments(t *testing.T) {
	events := demoPayments(seedNow)
	require.Len(t, events, DemoPaymentMonths*3)

	assert.Equal(t, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), events[len(events)-1].Date)

	ids := make(map[uuid.UUID]bool)
	for _, ev := range events {
		ids[ev.ID] = true
	}
	assert.Len(t, ids, len(events), "payment IDs are unique")
	assert.Equal(t, events, demoPayments(seedNow), "IDs and dates are stable")
}

// TestDemoSeeder_PlanEndToEnd seeds a sqlite database and computes the
// demo household's plan through the real repositories
func TestDemoSeeder_PlanEndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := sqlstore.NewSQLiteDB(filepath.Join(t.TempDir(), "demo.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlstore.RunMigrations(db))

	households := sqlstore.NewHouseholdRepository(db)
	accounts := sqlstore.NewAccountRepository(db)
	bills := sqlstore.NewBillRepository(db)
	debts := sqlstore.NewDebtRecordRepository(db)
	payments := sqlstore.NewPaymentRepository(db)
	settings := sqlstore.NewSettingsRepository(db)

	s := NewDemoSeeder(Writers{
		Households: households, Accounts: accounts, Bills: bills,
		Debts: debts, Payments: payments, Settings: settings,
	})
	s.now = func() time.Time { return seedNow }

	seeded, err := s.Seed(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	again, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, again, "second run is a no-op")

	svc := payoff.NewPayoffService(payoff.Repositories{
		Households: households, Accounts: accounts, Bills: bills,
		Debts: debts, Payments: payments, Settings: settings,
	}, cache.NewMemoryCache(), nil, nil, payoff.Options{CacheTTL: time.Minute})

	plan, err := svc.GetPlan(ctx, payoff.PlanRequest{
		HouseholdID: DEMO_HOUSEHOLD,
		AsOf:        time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodSnowball, plan.Settings.Method, "legacy strategy column")
	assert.EqualValues(t, 15000, plan.Settings.ExtraMonthlyPayment, "legacy extra payment column")

	// the linked Visa bill is folded into the account
	assert.ElementsMatch(t, []uuid.UUID{DEMO_CARD, DEMO_CAR_LOAN, DEMO_STUDENT_LOAN}, plan.Strategy.OrderedDebtIDs)
	assert.Equal(t, DEMO_CARD, plan.Strategy.OrderedDebtIDs[0], "snowball starts with the smallest balance")
	assert.EqualValues(t, 10300+15000, plan.Strategy.RecommendedPayments[DEMO_CARD])

	require.NotEmpty(t, plan.Timeline)
	assert.Equal(t, -DemoPaymentMonths, plan.Timeline[0].PeriodIndex)
	assert.EqualValues(t, 342000+840000+1200000, plan.Summary.TotalCurrentDebt)

	var now *domain.ProjectionPoint
	for i := range plan.Timeline {
		if plan.Timeline[i].PeriodIndex == 0 {
			now = &plan.Timeline[i]
		}
	}
	require.NotNil(t, now)
	require.NotNil(t, now.ActualTotal)
	require.NotNil(t, now.ProjectedTotal)
	assert.Equal(t, *now.ActualTotal, *now.ProjectedTotal)
}
