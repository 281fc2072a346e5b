// Package settings turns stored strategy settings of any schema generation into
// the canonical domain.StrategySettings the engine consumes.
package settings

import (
	"strings"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// Defaults applied when neither generation stored a value
var Defaults = domain.StrategySettings{
	ExtraMonthlyPayment: 0,
	Method:              domain.MethodAvalanche,
	PaymentFrequency:    domain.FrequencyMonthly,
}

// Override carries request-time changes layered on top of stored settings.
// Nil fields leave the stored value in place.
type Override struct {
	Method              *domain.Method
	PaymentFrequency    *domain.PaymentFrequency
	ExtraMonthlyPayment *money.Cents
}

// Resolve normalizes raw stored settings.
// Precedence per field: generation 2 column, then generation 1 column, then Defaults.
// A nil raw value (no stored row) yields Defaults.
// Negative extra payments are clamped to zero; unknown values are rejected.
func Resolve(raw *domain.RawStrategySettings) (domain.StrategySettings, error) {
	out := Defaults
	if raw == nil {
		return out, nil
	}

	var issues []domain.Issue

	if s := firstNonEmpty(raw.PayoffMethod, raw.DebtStrategy); s != "" {
		m, err := domain.ParseMethod(s)
		if err != nil {
			issues = append(issues, domain.Issue{Field: "method", Message: err.Error()})
		} else {
			out.Method = m
		}
	}

	if raw.PaymentFrequency != nil && strings.TrimSpace(*raw.PaymentFrequency) != "" {
		f, err := domain.ParsePaymentFrequency(*raw.PaymentFrequency)
		if err != nil {
			issues = append(issues, domain.Issue{Field: "payment_frequency", Message: err.Error()})
		} else {
			out.PaymentFrequency = f
		}
	}

	switch {
	case raw.ExtraPaymentCents != nil:
		out.ExtraMonthlyPayment = money.Cents(*raw.ExtraPaymentCents)
	case raw.DebtExtraPayment != nil && strings.TrimSpace(*raw.DebtExtraPayment) != "":
		c, err := money.Parse(*raw.DebtExtraPayment)
		if err != nil {
			issues = append(issues, domain.Issue{Field: "extra_monthly_payment", Message: "invalid amount " + *raw.DebtExtraPayment})
		} else {
			out.ExtraMonthlyPayment = c
		}
	}

	if len(issues) > 0 {
		return domain.StrategySettings{}, &domain.ValidationError{Issues: issues}
	}

	return out.Clamped(), nil
}

// ApplyOverride returns s with every non-nil override field applied, clamped
func ApplyOverride(s domain.StrategySettings, o Override) domain.StrategySettings {
	if o.Method != nil && *o.Method != "" {
		s.Method = *o.Method
	}
	if o.PaymentFrequency != nil && *o.PaymentFrequency != "" {
		s.PaymentFrequency = *o.PaymentFrequency
	}
	if o.ExtraMonthlyPayment != nil {
		s.ExtraMonthlyPayment = *o.ExtraMonthlyPayment
	}
	return s.Clamped()
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return ""
}
