package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// RolldownEntry reports when a debt is projected to reach zero.
// PayoffPeriodIndex and PayoffDate are nil when that does not happen within the horizon.
type RolldownEntry struct {
	DebtID            uuid.UUID
	PayoffPeriodIndex *int
	PayoffDate        *time.Time
}

// StrategyResult is the recommended plan for the current period
type StrategyResult struct {
	Method              Method
	OrderedDebtIDs      []uuid.UUID
	FocusDebtID         *uuid.UUID // nil when every debt is already paid off
	RecommendedPayments map[uuid.UUID]money.Cents
	RolldownSchedule    []RolldownEntry // in priority order
	DebtFreeDate        *time.Time
	NoDebts             bool
}

// ProjectionPoint is one period on the balance timeline.
// ActualTotal is only set for reconstructed (historical) points, ProjectedTotal
// only for simulated points; the shared "now" point carries both.
type ProjectionPoint struct {
	PeriodIndex    int // 0 is "now", negative indexes are history
	PeriodLabel    string
	Date           time.Time
	ProjectedTotal *money.Cents
	ActualTotal    *money.Cents
	ByDebt         map[uuid.UUID]money.Cents
}

// Summary aggregates the plan for reporting collaborators
type Summary struct {
	TotalOriginalDebt  money.Cents
	TotalCurrentDebt   money.Cents
	TotalPaid          money.Cents
	PercentageComplete decimal.Decimal
	DebtFreeDate       *time.Time
}

// PayoffPlan is the full engine output for one household
type PayoffPlan struct {
	HouseholdID   uuid.UUID
	AsOf          time.Time
	Settings      StrategySettings
	Strategy      StrategyResult
	Timeline      []ProjectionPoint
	Summary       Summary
	TotalInterest money.Cents // projected interest over the simulated periods
}

// MethodOutcome is the projected result of applying one method
type MethodOutcome struct {
	Method           Method
	DebtFreePeriod   *int
	DebtFreeDate     *time.Time
	TotalInterest    money.Cents
	RemainingBalance money.Cents // left at the end of the simulation, zero when debt-free
}

// MethodComparison contrasts snowball and avalanche for the same debts and budget
type MethodComparison struct {
	Snowball      MethodOutcome
	Avalanche     MethodOutcome
	Recommended   Method
	InterestSaved money.Cents // snowball interest minus avalanche interest, never negative; zero unless Comparable
	PeriodsSaved  *int        // snowball payoff period minus avalanche payoff period, when both pay off
	// Comparable reports whether both methods pay everything off within the horizon.
	// Interest totals are only weighed against each other when they do.
	Comparable bool
}
