package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/projection"
)

var asOf = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func newDebt(name string, balance, minimum money.Cents, apr string) domain.Debt {
	return domain.Debt{
		ID:                   uuid.New(),
		Name:                 name,
		RemainingBalance:     balance,
		OriginalBalance:      balance,
		MinimumPayment:       minimum,
		InterestRate:         decimal.RequireFromString(apr),
		LoanType:             domain.LoanTypeInstallment,
		CompoundingFrequency: domain.CompoundingMonthly,
		Source:               domain.SourceDebt,
	}
}

func avalanche(extra money.Cents) domain.StrategySettings {
	return domain.StrategySettings{ExtraMonthlyPayment: extra, Method: domain.MethodAvalanche, PaymentFrequency: domain.FrequencyMonthly}
}

func TestPlan_TwoDebtAvalanche(t *testing.T) {
	// A: 1000 at 24%, min 50. B: 500 at 10%, min 25. Extra 100.
	a := newDebt("A", 100000, 5000, "24")
	b := newDebt("B", 50000, 2500, "10")
	debts := []domain.Debt{b, a}

	plan, err := Plan(debts, avalanche(10000), asOf, Options{})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, plan.Strategy.OrderedDebtIDs)
	require.NotNil(t, plan.Strategy.FocusDebtID)
	assert.Equal(t, a.ID, *plan.Strategy.FocusDebtID)
	assert.Equal(t, money.Cents(15000), plan.Strategy.RecommendedPayments[a.ID])
	assert.Equal(t, money.Cents(2500), plan.Strategy.RecommendedPayments[b.ID])

	schedule := plan.Strategy.RolldownSchedule
	require.Len(t, schedule, 2)
	require.NotNil(t, schedule[0].PayoffPeriodIndex)
	require.NotNil(t, schedule[1].PayoffPeriodIndex)
	assert.Less(t, *schedule[0].PayoffPeriodIndex, *schedule[1].PayoffPeriodIndex, "A reaches zero strictly before B")

	require.NotNil(t, plan.Strategy.DebtFreeDate)
	assert.Equal(t, plan.Strategy.DebtFreeDate, plan.Summary.DebtFreeDate)
	assert.Equal(t, *schedule[1].PayoffDate, *plan.Strategy.DebtFreeDate)

	// after A is paid off, B receives 25 + 50 + 100
	sim := projection.Simulate(debts, avalanche(10000), asOf, projection.Options{})
	k := *schedule[0].PayoffPeriodIndex
	assert.Equal(t, money.Cents(17500), sim.States[k+1].Payments[1])

	now := plan.Timeline[0]
	assert.Equal(t, 0, now.PeriodIndex)
	require.NotNil(t, now.ActualTotal)
	require.NotNil(t, now.ProjectedTotal)
	assert.Equal(t, money.Cents(150000), *now.ActualTotal)
	assert.Equal(t, money.Cents(150000), *now.ProjectedTotal)

	assert.Equal(t, money.Cents(150000), plan.Summary.TotalCurrentDebt)
	assert.Equal(t, money.Zero, plan.Summary.TotalPaid)
	assert.True(t, plan.Summary.PercentageComplete.IsZero())
	assert.True(t, plan.TotalInterest.IsPositive())
}

func TestPlan_NoDebts(t *testing.T) {
	plan, err := Plan(nil, avalanche(5000), asOf, Options{})
	require.NoError(t, err)

	assert.True(t, plan.Strategy.NoDebts)
	assert.Nil(t, plan.Strategy.FocusDebtID)
	require.NotNil(t, plan.Strategy.DebtFreeDate)
	assert.Equal(t, asOf, *plan.Strategy.DebtFreeDate)

	require.Len(t, plan.Timeline, 1)
	assert.Equal(t, money.Zero, *plan.Timeline[0].ProjectedTotal)
	assert.Equal(t, money.Zero, *plan.Timeline[0].ActualTotal)
	assert.True(t, plan.Summary.PercentageComplete.Equal(decimal.NewFromInt(100)))
}

func TestPlan_ZeroInterestSixPeriods(t *testing.T) {
	d := newDebt("Loan", 30000, 5000, "0")

	plan, err := Plan([]domain.Debt{d}, avalanche(0), asOf, Options{})
	require.NoError(t, err)

	require.NotNil(t, plan.Strategy.DebtFreeDate)
	assert.Equal(t, time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC), *plan.Strategy.DebtFreeDate)
	assert.Len(t, plan.Timeline, 7)
	assert.Equal(t, money.Zero, plan.TotalInterest)
}

func TestPlan_WithHistory(t *testing.T) {
	d := newDebt("Loan", 30000, 5000, "0")
	d.OriginalBalance = 40000
	d.Payments = []domain.Payment{
		{Date: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), PrincipalAmount: 5000},
		{Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), PrincipalAmount: 5000},
	}

	plan, err := Plan([]domain.Debt{d}, avalanche(0), asOf, Options{})
	require.NoError(t, err)

	require.Len(t, plan.Timeline, 9)
	assert.Equal(t, -2, plan.Timeline[0].PeriodIndex)
	assert.Equal(t, money.Cents(40000), *plan.Timeline[0].ActualTotal)
	assert.Equal(t, money.Cents(35000), *plan.Timeline[1].ActualTotal)

	now := plan.Timeline[2]
	assert.Equal(t, 0, now.PeriodIndex)
	assert.Equal(t, *now.ActualTotal, *now.ProjectedTotal)

	assert.Equal(t, money.Cents(10000), plan.Summary.TotalPaid)
	assert.True(t, plan.Summary.PercentageComplete.Equal(decimal.RequireFromString("25")))
}

func TestPlan_InvalidInput(t *testing.T) {
	bad := newDebt("Bad", -100, 0, "5")

	_, err := Plan([]domain.Debt{bad}, avalanche(0), asOf, Options{})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	good := newDebt("Good", 100, 10, "5")
	_, err = Plan([]domain.Debt{good}, domain.StrategySettings{Method: "lottery"}, asOf, Options{})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestPlan_ClampsNegativeExtra(t *testing.T) {
	d := newDebt("Loan", 30000, 5000, "0")

	plan, err := Plan([]domain.Debt{d}, avalanche(-500), asOf, Options{})
	require.NoError(t, err)

	assert.Equal(t, money.Zero, plan.Settings.ExtraMonthlyPayment)
	assert.Equal(t, money.Cents(5000), plan.Strategy.RecommendedPayments[d.ID])
}

func TestPlan_Deterministic(t *testing.T) {
	debts := []domain.Debt{
		newDebt("A", 250000, 7500, "24.99"),
		newDebt("B", 840000, 31000, "6.5"),
		newDebt("C", 50000, 2500, "6.5"),
	}
	settings := domain.StrategySettings{ExtraMonthlyPayment: 15000, Method: domain.MethodSnowball, PaymentFrequency: domain.FrequencyBiweekly}

	first, err := Plan(debts, settings, asOf, Options{})
	require.NoError(t, err)
	second, err := Plan(debts, settings, asOf, Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompare(t *testing.T) {
	card := newDebt("Card", 300000, 9000, "24.99")
	car := newDebt("Car", 50000, 2500, "3")

	cmp, err := Compare([]domain.Debt{card, car}, avalanche(20000), asOf, Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodSnowball, cmp.Snowball.Method)
	assert.Equal(t, domain.MethodAvalanche, cmp.Avalanche.Method)
	assert.Less(t, int64(cmp.Avalanche.TotalInterest), int64(cmp.Snowball.TotalInterest))
	assert.Equal(t, domain.MethodAvalanche, cmp.Recommended)
	assert.Equal(t, cmp.Snowball.TotalInterest.Sub(cmp.Avalanche.TotalInterest), cmp.InterestSaved)
	require.NotNil(t, cmp.PeriodsSaved)
	assert.True(t, cmp.Comparable)
	assert.Equal(t, money.Zero, cmp.Avalanche.RemainingBalance)
}

func TestCompare_TieRecommendsSnowball(t *testing.T) {
	a := newDebt("A", 30000, 5000, "0")
	b := newDebt("B", 60000, 5000, "0")

	cmp, err := Compare([]domain.Debt{a, b}, avalanche(0), asOf, Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodSnowball, cmp.Recommended)
	assert.Equal(t, money.Zero, cmp.InterestSaved)
	require.NotNil(t, cmp.PeriodsSaved)
	assert.Equal(t, 0, *cmp.PeriodsSaved)
}

func TestCompare_HorizonExhausted(t *testing.T) {
	t.Run("lower remaining balance wins", func(t *testing.T) {
		a := newDebt("A", 100000, 5000, "24")
		b := newDebt("B", 50000, 5000, "0")

		cmp, err := Compare([]domain.Debt{a, b}, avalanche(10000), asOf, Options{HorizonMonths: 2})
		require.NoError(t, err)

		assert.Nil(t, cmp.Snowball.DebtFreePeriod)
		assert.Nil(t, cmp.Avalanche.DebtFreePeriod)
		assert.False(t, cmp.Comparable)
		assert.Less(t, int64(cmp.Avalanche.RemainingBalance), int64(cmp.Snowball.RemainingBalance))
		assert.Equal(t, domain.MethodAvalanche, cmp.Recommended)
		assert.Equal(t, money.Zero, cmp.InterestSaved, "unfinished runs are not weighed by interest")
		assert.Nil(t, cmp.PeriodsSaved)
	})

	t.Run("equal remaining balance keeps snowball", func(t *testing.T) {
		a := newDebt("A", 100000, 5000, "0")
		b := newDebt("B", 200000, 5000, "0")

		cmp, err := Compare([]domain.Debt{a, b}, avalanche(0), asOf, Options{HorizonMonths: 2})
		require.NoError(t, err)

		assert.False(t, cmp.Comparable)
		assert.Equal(t, money.Cents(280000), cmp.Snowball.RemainingBalance)
		assert.Equal(t, cmp.Snowball.RemainingBalance, cmp.Avalanche.RemainingBalance)
		assert.Equal(t, domain.MethodSnowball, cmp.Recommended)
	})
}

func TestCompare_InvalidInput(t *testing.T) {
	bad := newDebt("Bad", 100, 10, "5")
	bad.LoanType = ""

	_, err := Compare([]domain.Debt{bad}, avalanche(0), asOf, Options{})
	assert.True(t, domain.IsValidationError(err))
}
