// Package history rebuilds trailing actual balances from recorded payments and
// stitches them onto a forward projection.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// DefaultPeriods is the maximum number of trailing periods reconstructed
const DefaultPeriods = 12

// ErrBoundaryMismatch is returned when the last historical point and the first
// projected point disagree about current balances
var ErrBoundaryMismatch = errors.New("history and projection disagree at the current period")

// Reconstruct walks backwards from asOf in payment periods and returns one point
// per boundary, oldest first, ending with the "now" point (index 0).
//
// balance_at(t) = current balance + Σ principal of payments dated in (t, asOf].
// Payments dated after asOf are ignored. The walk stops at the first boundary on
// or before the earliest payment, and never goes further back than maxPeriods.
// A household without payments gets the "now" point only.
//
// This is exact only if every principal-reducing event was recorded.
func Reconstruct(debts []domain.Debt, asOf time.Time, freq domain.PaymentFrequency, maxPeriods int) []domain.ProjectionPoint {
	if maxPeriods <= 0 {
		maxPeriods = DefaultPeriods
	}

	n := 0
	if earliest, ok := earliestPayment(debts, asOf); ok {
		for n < maxPeriods && freq.PeriodDate(asOf, -n).After(earliest) {
			n++
		}
	}

	points := make([]domain.ProjectionPoint, 0, n+1)
	for j := n; j >= 0; j-- {
		boundary := freq.PeriodDate(asOf, -j)
		byDebt := make(map[uuid.UUID]money.Cents, len(debts))
		for _, d := range debts {
			byDebt[d.ID] = balanceAt(d, boundary, asOf)
		}
		total := sumByDebt(byDebt)
		points = append(points, domain.ProjectionPoint{
			PeriodIndex: -j,
			PeriodLabel: freq.Label(boundary),
			Date:        boundary,
			ActualTotal: &total,
			ByDebt:      byDebt,
		})
	}
	return points
}

func balanceAt(d domain.Debt, t, asOf time.Time) money.Cents {
	balance := d.RemainingBalance
	for _, p := range d.Payments {
		if p.Date.After(t) && !p.Date.After(asOf) {
			balance = balance.Add(p.PrincipalAmount)
		}
	}
	return balance
}

func earliestPayment(debts []domain.Debt, asOf time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, d := range debts {
		for _, p := range d.Payments {
			if p.Date.After(asOf) {
				continue
			}
			if !found || p.Date.Before(earliest) {
				earliest = p.Date
				found = true
			}
		}
	}
	return earliest, found
}

func sumByDebt(byDebt map[uuid.UUID]money.Cents) money.Cents {
	var total money.Cents
	for _, v := range byDebt {
		total = total.Add(v)
	}
	return total
}

// Merge concatenates history and projection at the shared "now" point.
// Both curves must carry identical per-debt balances there; the merged point
// keeps the projection's values and gains the historical ActualTotal.
func Merge(history, projection []domain.ProjectionPoint) ([]domain.ProjectionPoint, error) {
	if len(history) == 0 {
		return append([]domain.ProjectionPoint(nil), projection...), nil
	}
	if len(projection) == 0 {
		return append([]domain.ProjectionPoint(nil), history...), nil
	}

	last := history[len(history)-1]
	first := projection[0]
	if err := sameBalances(last, first); err != nil {
		return nil, err
	}

	now := first
	actual := *last.ActualTotal
	now.ActualTotal = &actual

	merged := make([]domain.ProjectionPoint, 0, len(history)+len(projection)-1)
	merged = append(merged, history[:len(history)-1]...)
	merged = append(merged, now)
	merged = append(merged, projection[1:]...)
	return merged, nil
}

func sameBalances(hist, proj domain.ProjectionPoint) error {
	if hist.PeriodIndex != 0 || proj.PeriodIndex != 0 {
		return fmt.Errorf("%w: boundary indexes %d and %d", ErrBoundaryMismatch, hist.PeriodIndex, proj.PeriodIndex)
	}
	if len(hist.ByDebt) != len(proj.ByDebt) {
		return fmt.Errorf("%w: %d historical debts, %d projected", ErrBoundaryMismatch, len(hist.ByDebt), len(proj.ByDebt))
	}
	for id, h := range hist.ByDebt {
		p, ok := proj.ByDebt[id]
		if !ok || p != h {
			return fmt.Errorf("%w: debt %s at %s, projected %s", ErrBoundaryMismatch, id, h, p)
		}
	}
	if hist.ActualTotal == nil || proj.ProjectedTotal == nil || *hist.ActualTotal != *proj.ProjectedTotal {
		return fmt.Errorf("%w: totals differ", ErrBoundaryMismatch)
	}
	return nil
}

// Summarize aggregates debts for reporting. A household with no original debt
// is reported as 100% complete.
func Summarize(debts []domain.Debt, debtFreeDate *time.Time) domain.Summary {
	var original, current money.Cents
	for _, d := range debts {
		original = original.Add(d.OriginalBalance)
		current = current.Add(d.RemainingBalance)
	}
	paid := original.Sub(current).ClampZero()

	pct := decimal.NewFromInt(100)
	if original > 0 {
		pct = money.Percent(paid, original)
	}

	return domain.Summary{
		TotalOriginalDebt:  original,
		TotalCurrentDebt:   current,
		TotalPaid:          paid,
		PercentageComplete: pct,
		DebtFreeDate:       debtFreeDate,
	}
}
