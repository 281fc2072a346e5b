// Package planner composes the payoff engine: strategy, projection, history and
// summary for one set of canonical debts. It performs no I/O.
package planner

import (
	"fmt"
	"time"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/history"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/projection"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/strategy"
)

// Options tunes the engine
type Options struct {
	HorizonMonths  int // forward projection length, defaults to 24
	HistoryPeriods int // trailing reconstructed periods, defaults to 12
}

func (o Options) projection() projection.Options {
	return projection.Options{HorizonMonths: o.HorizonMonths}
}

// Plan validates debts and settings, then runs the full engine.
// Structurally invalid input is rejected with a *domain.ValidationError before
// any simulation runs. Empty input and an exhausted horizon are not errors.
func Plan(debts []domain.Debt, settings domain.StrategySettings, asOf time.Time, opts Options) (domain.PayoffPlan, error) {
	if err := validate(debts, &settings); err != nil {
		return domain.PayoffPlan{}, err
	}

	sim := projection.Simulate(debts, settings, asOf, opts.projection())
	result := strategy.Calculate(debts, settings, sim.Timeline(), asOf)

	past := history.Reconstruct(debts, asOf, settings.PaymentFrequency, opts.HistoryPeriods)
	timeline, err := history.Merge(past, sim.Points)
	if err != nil {
		return domain.PayoffPlan{}, fmt.Errorf("merge timeline: %w", err)
	}

	return domain.PayoffPlan{
		AsOf:          asOf,
		Settings:      settings,
		Strategy:      result,
		Timeline:      timeline,
		Summary:       history.Summarize(debts, result.DebtFreeDate),
		TotalInterest: sim.TotalInterest,
	}, nil
}

// Compare projects the same debts and budget under both methods.
//
// When both pay off within the horizon, avalanche is recommended only when it
// costs strictly less interest, otherwise snowball wins for its earlier first payoff.
// When only one pays off, that one is recommended. When neither does, the
// method leaving the lower balance wins, snowball on a tie. Interest totals of
// unfinished runs cover different unpaid states, so InterestSaved stays zero then.
func Compare(debts []domain.Debt, settings domain.StrategySettings, asOf time.Time, opts Options) (domain.MethodComparison, error) {
	if err := validate(debts, &settings); err != nil {
		return domain.MethodComparison{}, err
	}

	outcome := func(m domain.Method) domain.MethodOutcome {
		s := settings
		s.Method = m
		sim := projection.Simulate(debts, s, asOf, opts.projection())
		return domain.MethodOutcome{
			Method:           m,
			DebtFreePeriod:   sim.DebtFreePeriod,
			DebtFreeDate:     sim.DebtFreeDate,
			TotalInterest:    sim.TotalInterest,
			RemainingBalance: sim.States[len(sim.States)-1].Total(),
		}
	}

	cmp := domain.MethodComparison{
		Snowball:  outcome(domain.MethodSnowball),
		Avalanche: outcome(domain.MethodAvalanche),
	}

	snowballDone := cmp.Snowball.DebtFreePeriod != nil
	avalancheDone := cmp.Avalanche.DebtFreePeriod != nil

	cmp.Recommended = domain.MethodSnowball
	switch {
	case snowballDone && avalancheDone:
		cmp.Comparable = true
		if cmp.Avalanche.TotalInterest < cmp.Snowball.TotalInterest {
			cmp.Recommended = domain.MethodAvalanche
		}
		cmp.InterestSaved = money.Max(cmp.Snowball.TotalInterest.Sub(cmp.Avalanche.TotalInterest), money.Zero)
		saved := *cmp.Snowball.DebtFreePeriod - *cmp.Avalanche.DebtFreePeriod
		cmp.PeriodsSaved = &saved
	case avalancheDone:
		cmp.Recommended = domain.MethodAvalanche
	case !snowballDone && cmp.Avalanche.RemainingBalance < cmp.Snowball.RemainingBalance:
		cmp.Recommended = domain.MethodAvalanche
	}

	return cmp, nil
}

func validate(debts []domain.Debt, settings *domain.StrategySettings) error {
	if err := domain.ValidateDebts(debts); err != nil {
		return err
	}
	*settings = settings.Clamped()
	return settings.Validate()
}
