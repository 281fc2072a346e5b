package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
	"github.com/simaogato/wealthflow-payoff/internal/usecase/payoff"
)

// PayoffPlanner is the use case the server delegates to
type PayoffPlanner interface {
	GetPlan(ctx context.Context, req payoff.PlanRequest) (*domain.PayoffPlan, error)
	ComparePlans(ctx context.Context, req payoff.PlanRequest) (*domain.MethodComparison, error)
}

// Server implements the PayoffService gRPC server
type Server struct {
	Planner PayoffPlanner
}

// NewServer creates a new gRPC server instance
func NewServer(planner PayoffPlanner) *Server {
	return &Server{Planner: planner}
}

// GetPayoffPlan handles the GetPayoffPlan RPC
func (s *Server) GetPayoffPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	planReq, err := parsePlanRequest(req)
	if err != nil {
		return nil, err
	}

	plan, err := s.Planner.GetPlan(ctx, planReq)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(encodePlan(plan))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode plan: %v", err)
	}
	return resp, nil
}

// ComparePayoffMethods handles the ComparePayoffMethods RPC
func (s *Server) ComparePayoffMethods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	planReq, err := parsePlanRequest(req)
	if err != nil {
		return nil, err
	}

	cmp, err := s.Planner.ComparePlans(ctx, planReq)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(encodeComparison(cmp))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode comparison: %v", err)
	}
	return resp, nil
}

// parsePlanRequest reads household_id (required), as_of, method,
// payment_frequency and extra_monthly_payment from the request struct
func parsePlanRequest(req *structpb.Struct) (payoff.PlanRequest, error) {
	fields := req.GetFields()
	var out payoff.PlanRequest

	rawID, err := stringField(fields, "household_id")
	if err != nil {
		return out, err
	}
	if rawID == "" {
		return out, status.Error(codes.InvalidArgument, "household_id is required")
	}
	if out.HouseholdID, err = uuid.Parse(rawID); err != nil {
		return out, status.Errorf(codes.InvalidArgument, "invalid household_id format: %v", err)
	}

	asOf, err := stringField(fields, "as_of")
	if err != nil {
		return out, err
	}
	if asOf != "" {
		if out.AsOf, err = time.Parse(time.DateOnly, asOf); err != nil {
			return out, status.Errorf(codes.InvalidArgument, "invalid as_of format, want YYYY-MM-DD: %v", err)
		}
	}

	method, err := stringField(fields, "method")
	if err != nil {
		return out, err
	}
	if method != "" {
		m, err := domain.ParseMethod(method)
		if err != nil {
			return out, status.Errorf(codes.InvalidArgument, "%v", err)
		}
		out.Override.Method = &m
	}

	freq, err := stringField(fields, "payment_frequency")
	if err != nil {
		return out, err
	}
	if freq != "" {
		f, err := domain.ParsePaymentFrequency(freq)
		if err != nil {
			return out, status.Errorf(codes.InvalidArgument, "%v", err)
		}
		out.Override.PaymentFrequency = &f
	}

	if v, ok := fields["extra_monthly_payment"]; ok {
		extra, err := parseAmount(v)
		if err != nil {
			return out, err
		}
		out.Override.ExtraMonthlyPayment = extra
	}

	return out, nil
}

func stringField(fields map[string]*structpb.Value, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "", nil
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue), nil
	}
	return "", status.Errorf(codes.InvalidArgument, "%s must be a string", key)
}

// parseAmount accepts a decimal string ("150.00") or a number. Null means unset.
func parseAmount(v *structpb.Value) (*money.Cents, error) {
	var c money.Cents
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		if strings.TrimSpace(k.StringValue) == "" {
			return nil, nil
		}
		parsed, err := money.Parse(k.StringValue)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid extra_monthly_payment format: %q", k.StringValue)
		}
		c = parsed
	case *structpb.Value_NumberValue:
		c = money.FromDecimal(decimal.NewFromFloat(k.NumberValue))
	default:
		return nil, status.Error(codes.InvalidArgument, "extra_monthly_payment must be a decimal string or number")
	}
	return &c, nil
}

func encodePlan(plan *domain.PayoffPlan) map[string]any {
	return map[string]any{
		"household_id":   plan.HouseholdID.String(),
		"as_of":          formatDate(plan.AsOf),
		"settings":       encodeSettings(plan.Settings),
		"strategy":       encodeStrategy(plan.Strategy),
		"timeline":       encodeTimeline(plan.Timeline),
		"summary":        encodeSummary(plan.Summary),
		"total_interest": plan.TotalInterest.String(),
	}
}

func encodeSettings(s domain.StrategySettings) map[string]any {
	return map[string]any{
		"method":                string(s.Method),
		"payment_frequency":     string(s.PaymentFrequency),
		"extra_monthly_payment": s.ExtraMonthlyPayment.String(),
	}
}

// encodeStrategy lists recommended payments in priority order
func encodeStrategy(r domain.StrategyResult) map[string]any {
	ordered := make([]any, len(r.OrderedDebtIDs))
	payments := make([]any, len(r.OrderedDebtIDs))
	for i, id := range r.OrderedDebtIDs {
		ordered[i] = id.String()
		payments[i] = map[string]any{
			"debt_id": id.String(),
			"amount":  r.RecommendedPayments[id].String(),
		}
	}

	schedule := make([]any, len(r.RolldownSchedule))
	for i, e := range r.RolldownSchedule {
		entry := map[string]any{
			"debt_id":             e.DebtID.String(),
			"payoff_period_index": nil,
			"payoff_date":         optionalDate(e.PayoffDate),
		}
		if e.PayoffPeriodIndex != nil {
			entry["payoff_period_index"] = *e.PayoffPeriodIndex
		}
		schedule[i] = entry
	}

	var focus any
	if r.FocusDebtID != nil {
		focus = r.FocusDebtID.String()
	}

	return map[string]any{
		"method":               string(r.Method),
		"no_debts":             r.NoDebts,
		"focus_debt_id":        focus,
		"ordered_debt_ids":     ordered,
		"recommended_payments": payments,
		"rolldown_schedule":    schedule,
		"debt_free_date":       optionalDate(r.DebtFreeDate),
	}
}

func encodeTimeline(points []domain.ProjectionPoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		byDebt := make(map[string]any, len(p.ByDebt))
		for id, c := range p.ByDebt {
			byDebt[id.String()] = c.String()
		}
		out[i] = map[string]any{
			"period_index":    p.PeriodIndex,
			"period_label":    p.PeriodLabel,
			"date":            formatDate(p.Date),
			"projected_total": optionalAmount(p.ProjectedTotal),
			"actual_total":    optionalAmount(p.ActualTotal),
			"by_debt":         byDebt,
		}
	}
	return out
}

func encodeSummary(s domain.Summary) map[string]any {
	return map[string]any{
		"total_original_debt": s.TotalOriginalDebt.String(),
		"total_current_debt":  s.TotalCurrentDebt.String(),
		"total_paid":          s.TotalPaid.String(),
		"percentage_complete": s.PercentageComplete.StringFixed(2),
		"debt_free_date":      optionalDate(s.DebtFreeDate),
	}
}

func encodeComparison(c *domain.MethodComparison) map[string]any {
	var periodsSaved any
	if c.PeriodsSaved != nil {
		periodsSaved = *c.PeriodsSaved
	}
	return map[string]any{
		"snowball":       encodeOutcome(c.Snowball),
		"avalanche":      encodeOutcome(c.Avalanche),
		"recommended":    string(c.Recommended),
		"interest_saved": c.InterestSaved.String(),
		"periods_saved":  periodsSaved,
		"comparable":     c.Comparable,
	}
}

func encodeOutcome(o domain.MethodOutcome) map[string]any {
	var period any
	if o.DebtFreePeriod != nil {
		period = *o.DebtFreePeriod
	}
	return map[string]any{
		"method":            string(o.Method),
		"debt_free_period":  period,
		"debt_free_date":    optionalDate(o.DebtFreeDate),
		"total_interest":    o.TotalInterest.String(),
		"remaining_balance": o.RemainingBalance.String(),
	}
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func optionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func optionalAmount(c *money.Cents) any {
	if c == nil {
		return nil
	}
	return c.String()
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case domain.IsValidationError(err):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrHouseholdNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

var _ PayoffServiceServer = (*Server)(nil)
