package strategy

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// Timeline is the part of a simulation result the calculator reports back.
// It is taken from the simulator as-is so the two outputs never disagree.
type Timeline struct {
	Schedule     []domain.RolldownEntry
	DebtFreeDate *time.Time
}

// Order returns a copy of debts in payoff priority order. Input is not mutated.
//   - avalanche: interest rate desc, remaining balance desc, id asc
//   - snowball:  remaining balance asc, interest rate desc, id asc
func Order(debts []domain.Debt, method domain.Method) []domain.Debt {
	ordered := make([]domain.Debt, len(debts))
	copy(ordered, debts)

	less := avalancheLess
	if method == domain.MethodSnowball {
		less = snowballLess
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

func avalancheLess(a, b domain.Debt) bool {
	if c := a.InterestRate.Cmp(b.InterestRate); c != 0 {
		return c > 0
	}
	if a.RemainingBalance != b.RemainingBalance {
		return a.RemainingBalance > b.RemainingBalance
	}
	return idLess(a.ID, b.ID)
}

func snowballLess(a, b domain.Debt) bool {
	if a.RemainingBalance != b.RemainingBalance {
		return a.RemainingBalance < b.RemainingBalance
	}
	if c := a.InterestRate.Cmp(b.InterestRate); c != 0 {
		return c > 0
	}
	return idLess(a.ID, b.ID)
}

// idLess orders IDs by their canonical string form, which matches byte order
func idLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Focus returns the index of the first ordered debt that still has a balance, or -1
func Focus(ordered []domain.Debt) int {
	for i, d := range ordered {
		if d.RemainingBalance > 0 {
			return i
		}
	}
	return -1
}

// Calculate builds the current-period recommendation.
//
// Logic:
//  1. Order debts by the settings' method
//  2. The first debt with a balance is the focus; it gets
//     minimum + additional + the shared extra budget
//  3. Every other debt with a balance gets minimum + additional
//  4. Debts already at zero get nothing
//
// An empty debt list is not an error: it yields a NoDebts result that is debt-free as of asOf.
// A negative extra payment is treated as zero.
func Calculate(debts []domain.Debt, settings domain.StrategySettings, timeline Timeline, asOf time.Time) domain.StrategyResult {
	settings = settings.Clamped()

	result := domain.StrategyResult{
		Method:              settings.Method,
		OrderedDebtIDs:      []uuid.UUID{},
		RecommendedPayments: make(map[uuid.UUID]money.Cents, len(debts)),
		RolldownSchedule:    timeline.Schedule,
		DebtFreeDate:        timeline.DebtFreeDate,
	}
	if result.RolldownSchedule == nil {
		result.RolldownSchedule = []domain.RolldownEntry{}
	}

	if len(debts) == 0 {
		now := asOf
		result.NoDebts = true
		result.DebtFreeDate = &now
		return result
	}

	ordered := Order(debts, settings.Method)
	focus := Focus(ordered)

	for i, d := range ordered {
		result.OrderedDebtIDs = append(result.OrderedDebtIDs, d.ID)

		if d.IsPaidOff() {
			result.RecommendedPayments[d.ID] = money.Zero
			continue
		}
		payment := d.ScheduledPayment()
		if i == focus {
			payment = payment.Add(settings.ExtraMonthlyPayment)
		}
		result.RecommendedPayments[d.ID] = payment
	}

	if focus >= 0 {
		id := ordered[focus].ID
		result.FocusDebtID = &id
	}

	return result
}
