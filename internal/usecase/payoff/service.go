package payoff

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/log"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/normalizer"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/planner"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/settings"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero
const DefaultCacheTTL = 5 * time.Minute

// PlanRequest identifies the household and the point in time to plan from
type PlanRequest struct {
	HouseholdID uuid.UUID
	AsOf        time.Time // zero means today (UTC)
	Override    settings.Override
}

// Repositories groups the read ports the service fetches from
type Repositories struct {
	Households domain.HouseholdRepository
	Accounts   domain.AccountRepository
	Bills      domain.BillRepository
	Debts      domain.DebtRecordRepository
	Payments   domain.PaymentRepository
	Settings   domain.SettingsRepository
}

// Options tunes the service
type Options struct {
	Planner  planner.Options
	CacheTTL time.Duration
}

// PayoffService loads a household's debts and runs the payoff engine on them
type PayoffService struct {
	repos     Repositories
	cache     domain.PlanCache     // optional
	publisher domain.PlanPublisher // optional
	logger    *log.Logger
	opts      Options
	now       func() time.Time
}

// NewPayoffService creates a new PayoffService instance. cache and publisher may be nil.
func NewPayoffService(repos Repositories, cache domain.PlanCache, publisher domain.PlanPublisher, logger *log.Logger, opts Options) *PayoffService {
	if logger == nil {
		logger = log.Discard()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &PayoffService{
		repos:     repos,
		cache:     cache,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentPayoff),
		opts:      opts,
		now:       time.Now,
	}
}

// household is everything the engine needs, loaded and normalized
type household struct {
	id       uuid.UUID
	asOf     time.Time
	debts    []domain.Debt
	settings domain.StrategySettings
}

// GetPlan builds the payoff plan for a household.
// Logic:
//  1. Fetch every source concurrently
//  2. Resolve stored settings and apply request overrides
//  3. Normalize sources into canonical debts
//  4. Serve from cache, or run the planner and cache the result
//  5. Publish a PlanComputed event (failures are logged, not returned)
func (s *PayoffService) GetPlan(ctx context.Context, req PlanRequest) (*domain.PayoffPlan, error) {
	start := time.Now()

	h, err := s.load(ctx, req)
	if err != nil {
		s.logFailure(log.OpPlan, req, err)
		return nil, err
	}

	key, err := cacheKey(h)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping plan cache", log.FieldError, err.Error())
	}
	if plan, ok := s.cached(ctx, key); ok {
		s.logger.InfoContext(ctx, "payoff plan served from cache", s.fields(log.OpPlan, h).
			With(log.FieldCacheHit, true).WithDuration(time.Since(start)).ToSlice()...)
		return plan, nil
	}

	plan, err := planner.Plan(h.debts, h.settings, h.asOf, s.opts.Planner)
	if err != nil {
		s.logFailure(log.OpPlan, req, err)
		return nil, err
	}
	plan.HouseholdID = h.id

	s.store(ctx, key, &plan)
	s.publish(ctx, &plan)

	s.logger.InfoContext(ctx, "payoff plan computed", s.fields(log.OpPlan, h).
		With(log.FieldCacheHit, false).WithDuration(time.Since(start)).ToSlice()...)
	return &plan, nil
}

// ComparePlans projects the household's debts under both methods
func (s *PayoffService) ComparePlans(ctx context.Context, req PlanRequest) (*domain.MethodComparison, error) {
	start := time.Now()

	h, err := s.load(ctx, req)
	if err != nil {
		s.logFailure(log.OpCompare, req, err)
		return nil, err
	}

	cmp, err := planner.Compare(h.debts, h.settings, h.asOf, s.opts.Planner)
	if err != nil {
		s.logFailure(log.OpCompare, req, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "payoff methods compared", s.fields(log.OpCompare, h).
		With("recommended", string(cmp.Recommended)).WithDuration(time.Since(start)).ToSlice()...)
	return &cmp, nil
}

func (s *PayoffService) load(ctx context.Context, req PlanRequest) (household, error) {
	if req.HouseholdID == uuid.Nil {
		return household{}, &domain.ValidationError{Issues: []domain.Issue{{Field: "household_id", Message: "must be set"}}}
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	asOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	var (
		exists   bool
		accounts []domain.LiabilityAccount
		bills    []domain.DebtBill
		records  []domain.DebtRecord
		payments []domain.PaymentEvent
		raw      *domain.RawStrategySettings
	)

	historyMonths := s.opts.Planner.HistoryPeriods
	if historyMonths <= 0 {
		historyMonths = 12
	}
	since := domain.AddMonthsClamped(asOf, -historyMonths)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if exists, err = s.repos.Households.Exists(gctx, req.HouseholdID); err != nil {
			return fmt.Errorf("fetch household: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if accounts, err = s.repos.Accounts.ListByHousehold(gctx, req.HouseholdID); err != nil {
			return fmt.Errorf("fetch accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bills, err = s.repos.Bills.ListByHousehold(gctx, req.HouseholdID); err != nil {
			return fmt.Errorf("fetch bills: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if records, err = s.repos.Debts.ListByHousehold(gctx, req.HouseholdID); err != nil {
			return fmt.Errorf("fetch debts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if payments, err = s.repos.Payments.ListByHousehold(gctx, req.HouseholdID, since); err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		raw, err = s.repos.Settings.GetRaw(gctx, req.HouseholdID)
		if errors.Is(err, domain.ErrSettingsNotFound) {
			raw, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return household{}, err
	}

	if !exists {
		return household{}, domain.ErrHouseholdNotFound
	}

	resolved, err := settings.Resolve(raw)
	if err != nil {
		return household{}, err
	}
	resolved = settings.ApplyOverride(resolved, req.Override)

	debts, err := normalizer.Normalize(normalizer.Input{
		HouseholdID: req.HouseholdID,
		Accounts:    accounts,
		Bills:       bills,
		Records:     records,
		Payments:    payments,
	})
	if err != nil {
		return household{}, err
	}

	return household{id: req.HouseholdID, asOf: asOf, debts: debts, settings: resolved}, nil
}

// cacheKey scopes a cached plan to its request and to a fingerprint of the
// normalized debts, so a changed balance or a new payment misses the cache
func cacheKey(h household) (string, error) {
	data, err := json.Marshal(h.debts)
	if err != nil {
		return "", fmt.Errorf("fingerprint debts: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("payoff:plan:%s:%s:%s:%s:%d:%x",
		h.id, h.asOf.Format(time.DateOnly), h.settings.Method, h.settings.PaymentFrequency,
		int64(h.settings.ExtraMonthlyPayment), sum[:8]), nil
}

func (s *PayoffService) cached(ctx context.Context, key string) (*domain.PayoffPlan, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var plan domain.PayoffPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cached plan", log.FieldError, err.Error())
		return nil, false
	}
	return &plan, true
}

func (s *PayoffService) store(ctx context.Context, key string, plan *domain.PayoffPlan) {
	if s.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(plan)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode plan for cache", log.FieldError, err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache plan", log.NewFields().
			WithHousehold(plan.HouseholdID).WithError(err).WithErrorType(log.ErrorTypeNetwork).ToSlice()...)
	}
}

func (s *PayoffService) publish(ctx context.Context, plan *domain.PayoffPlan) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPlanComputed(ctx, plan); err != nil {
		s.logger.WarnContext(ctx, "failed to publish plan computed event", log.NewFields().
			WithOperation(log.OpPublish).WithHousehold(plan.HouseholdID).WithError(err).ToSlice()...)
	}
}

func (s *PayoffService) fields(op string, h household) log.LogFields {
	return log.NewFields().
		WithOperation(op).
		WithHousehold(h.id).
		WithRequest(h.asOf, string(h.settings.Method), string(h.settings.PaymentFrequency)).
		With(log.FieldDebtCount, len(h.debts))
}

func (s *PayoffService) logFailure(op string, req PlanRequest, err error) {
	kind := log.ErrorTypeInternal
	switch {
	case domain.IsValidationError(err):
		kind = log.ErrorTypeValidation
	case errors.Is(err, domain.ErrHouseholdNotFound):
		kind = log.ErrorTypeNotFound
	}
	s.logger.Error("payoff request failed", log.NewFields().
		WithOperation(op).WithHousehold(req.HouseholdID).WithError(err).WithErrorType(kind).ToSlice()...)
}
