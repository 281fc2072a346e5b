// Package projection simulates debt balances forward, period by period, applying
// interest, scheduled payments and snowball/avalanche rolldown.
//
// Each period is an immutable State produced from the previous one by Step, so a
// simulation can be replayed from any snapshot and independent simulations can run
// in parallel without sharing memory.
package projection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/strategy"
)

const (
	// DefaultHorizonMonths is how far ahead the simulation runs
	DefaultHorizonMonths = 24

	// RevolvingMinimumFloor is the lowest a shrinking revolving minimum goes
	// (unless the debt's own minimum is lower)
	RevolvingMinimumFloor money.Cents = 2500
)

// Options tunes a simulation
type Options struct {
	HorizonMonths int // defaults to DefaultHorizonMonths
}

// debtTerms is a debt with its per-period rate precomputed
type debtTerms struct {
	debt        domain.Debt
	rate        decimal.Decimal
	baseMinimum money.Cents
	additional  money.Cents
	startBal    money.Cents
}

// minimumFor returns the minimum due on a period that starts at balance.
// Installment minimums are fixed; revolving minimums follow the balance down
// in proportion to the starting minimum, but not below the floor.
func (t debtTerms) minimumFor(balance money.Cents) money.Cents {
	if t.debt.LoanType != domain.LoanTypeRevolving || t.startBal <= 0 {
		return t.baseMinimum
	}
	proportional := money.MulRatioCeil(balance, t.baseMinimum, t.startBal)
	floor := money.Min(t.baseMinimum, RevolvingMinimumFloor)
	return money.Max(floor, proportional)
}

// Plan is the fixed input of a simulation: debts in period-0 priority order
// plus the shared budget and calendar.
type Plan struct {
	AsOf      time.Time
	Frequency domain.PaymentFrequency
	Method    domain.Method
	Extra     money.Cents
	Horizon   int // number of periods after period 0
	terms     []debtTerms
}

// NewPlan orders debts by method and precomputes their period rates.
// Settings are clamped first, so a negative extra payment counts as zero.
func NewPlan(debts []domain.Debt, settings domain.StrategySettings, asOf time.Time, opts Options) Plan {
	settings = settings.Clamped()
	ordered := strategy.Order(debts, settings.Method)

	terms := make([]debtTerms, len(ordered))
	for i, d := range ordered {
		terms[i] = debtTerms{
			debt:        d,
			rate:        PeriodRate(d, settings.PaymentFrequency),
			baseMinimum: d.MinimumPayment,
			additional:  d.AdditionalMonthlyPayment,
			startBal:    d.RemainingBalance,
		}
	}

	return Plan{
		AsOf:      asOf,
		Frequency: settings.PaymentFrequency,
		Method:    settings.Method,
		Extra:     settings.ExtraMonthlyPayment,
		Horizon:   HorizonPeriods(settings.PaymentFrequency, asOf, opts.HorizonMonths),
		terms:     terms,
	}
}

// Debts returns the plan's debts in priority order
func (p Plan) Debts() []domain.Debt {
	out := make([]domain.Debt, len(p.terms))
	for i, t := range p.terms {
		out[i] = t.debt
	}
	return out
}

// HorizonPeriods counts the payment periods whose date falls within months of asOf
func HorizonPeriods(freq domain.PaymentFrequency, asOf time.Time, months int) int {
	if months <= 0 {
		months = DefaultHorizonMonths
	}
	end := domain.AddMonthsClamped(asOf, months)
	n := 0
	for !freq.PeriodDate(asOf, n+1).After(end) {
		n++
	}
	return n
}

// State is an immutable snapshot at the end of a period. Slices are indexed by
// priority position and are never modified after the State is built.
type State struct {
	Period        int
	Date          time.Time
	Balances      []money.Cents
	Payments      []money.Cents // paid during this period; zero at period 0
	Interest      []money.Cents // accrued during this period
	PaidOffAt     []int         // period a debt reached zero, -1 while active
	Released      money.Cents   // capacity freed by paid-off debts, rolled to the focus
	TotalInterest money.Cents   // cumulative interest since period 0
}

// Initial returns the period-0 state: current balances, nothing paid yet.
// Debts that start at zero count as paid off at period 0 and release nothing.
func Initial(p Plan) State {
	n := len(p.terms)
	s := State{
		Period:    0,
		Date:      p.AsOf,
		Balances:  make([]money.Cents, n),
		Payments:  make([]money.Cents, n),
		Interest:  make([]money.Cents, n),
		PaidOffAt: make([]int, n),
	}
	for i, t := range p.terms {
		s.Balances[i] = t.startBal
		s.PaidOffAt[i] = -1
		if t.startBal <= 0 {
			s.Balances[i] = 0
			s.PaidOffAt[i] = 0
		}
	}
	return s
}

// Done reports whether every balance is zero
func (s State) Done() bool {
	for _, b := range s.Balances {
		if b > 0 {
			return false
		}
	}
	return true
}

// Focus returns the priority index of the debt receiving the shared budget, or -1
func (s State) Focus() int {
	for i, b := range s.Balances {
		if b > 0 {
			return i
		}
	}
	return -1
}

// Total returns the sum of all balances
func (s State) Total() money.Cents {
	return money.Sum(s.Balances...)
}

// Step simulates one period and returns the next state. s is not modified.
//
// For each active debt in priority order:
//  1. Accrue: interest on the balance at the start of the period
//  2. Pay: minimum + standing additional; the focus debt also receives the
//     shared extra budget and every amount released by earlier payoffs
//  3. Clamp: a payment never exceeds the accrued balance. The unused part is
//     not carried to another debt within the same period
//  4. Rolldown: a debt that reaches zero releases its base minimum and
//     additional payment to the focus from the next period on
func Step(p Plan, s State) State {
	n := len(p.terms)
	next := State{
		Period:        s.Period + 1,
		Date:          p.Frequency.PeriodDate(p.AsOf, s.Period+1),
		Balances:      make([]money.Cents, n),
		Payments:      make([]money.Cents, n),
		Interest:      make([]money.Cents, n),
		PaidOffAt:     append([]int(nil), s.PaidOffAt...),
		Released:      s.Released,
		TotalInterest: s.TotalInterest,
	}

	focus := s.Focus()
	for i, t := range p.terms {
		balance := s.Balances[i]
		if balance <= 0 {
			continue
		}

		interest := money.MulRate(balance, t.rate)
		accrued := balance.Add(interest)

		payment := t.minimumFor(balance).Add(t.additional)
		if i == focus {
			payment = payment.Add(p.Extra).Add(s.Released)
		}
		payment = money.Min(payment, accrued)

		next.Balances[i] = accrued.Sub(payment)
		next.Payments[i] = payment
		next.Interest[i] = interest
		next.TotalInterest = next.TotalInterest.Add(interest)

		if next.Balances[i] == 0 {
			next.PaidOffAt[i] = next.Period
			next.Released = next.Released.Add(t.baseMinimum).Add(t.additional)
		}
	}

	return next
}

// Payoff is when a debt reached zero
type Payoff struct {
	Period int
	Date   time.Time
}

// Result is a completed simulation
type Result struct {
	Plan           Plan
	States         []State // period 0 first
	Points         []domain.ProjectionPoint
	Payoffs        map[uuid.UUID]Payoff // only debts that reach zero within the horizon
	DebtFreePeriod *int
	DebtFreeDate   *time.Time
	TotalInterest  money.Cents
}

// Simulate runs a plan from period 0 until every debt is paid off or the horizon
// is exhausted. An exhausted horizon is not an error: the curve ends there and
// DebtFreeDate stays nil.
func Simulate(debts []domain.Debt, settings domain.StrategySettings, asOf time.Time, opts Options) Result {
	return Run(NewPlan(debts, settings, asOf, opts))
}

// Run folds Step over a prepared plan
func Run(p Plan) Result {
	s := Initial(p)
	states := []State{s}
	for !s.Done() && s.Period < p.Horizon {
		s = Step(p, s)
		states = append(states, s)
	}

	res := Result{
		Plan:          p,
		States:        states,
		Points:        make([]domain.ProjectionPoint, len(states)),
		Payoffs:       make(map[uuid.UUID]Payoff),
		TotalInterest: s.TotalInterest,
	}
	for i, st := range states {
		res.Points[i] = p.point(st)
	}
	for i, t := range p.terms {
		if at := s.PaidOffAt[i]; at >= 0 {
			res.Payoffs[t.debt.ID] = Payoff{Period: at, Date: p.Frequency.PeriodDate(p.AsOf, at)}
		}
	}
	if s.Done() {
		period := s.Period
		date := s.Date
		res.DebtFreePeriod = &period
		res.DebtFreeDate = &date
	}
	return res
}

func (p Plan) point(s State) domain.ProjectionPoint {
	byDebt := make(map[uuid.UUID]money.Cents, len(p.terms))
	for i, t := range p.terms {
		byDebt[t.debt.ID] = s.Balances[i]
	}
	total := s.Total()
	return domain.ProjectionPoint{
		PeriodIndex:    s.Period,
		PeriodLabel:    p.Frequency.Label(s.Date),
		Date:           s.Date,
		ProjectedTotal: &total,
		ByDebt:         byDebt,
	}
}

// Schedule reports every debt's payoff period and date in priority order
func (r Result) Schedule() []domain.RolldownEntry {
	entries := make([]domain.RolldownEntry, 0, len(r.Plan.terms))
	for _, t := range r.Plan.terms {
		entry := domain.RolldownEntry{DebtID: t.debt.ID}
		if po, ok := r.Payoffs[t.debt.ID]; ok {
			period := po.Period
			date := po.Date
			entry.PayoffPeriodIndex = &period
			entry.PayoffDate = &date
		}
		entries = append(entries, entry)
	}
	return entries
}

// Timeline adapts the result for the strategy calculator
func (r Result) Timeline() strategy.Timeline {
	return strategy.Timeline{Schedule: r.Schedule(), DebtFreeDate: r.DebtFreeDate}
}
