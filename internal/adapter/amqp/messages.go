package amqp

import (
	"encoding/json"
	"time"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
)

// PlanComputedMessage announces a freshly computed payoff plan.
// It carries the headline numbers only; consumers that need the full
// timeline request it through the API.
type PlanComputedMessage struct {
	HouseholdID         string    `json:"household_id"`
	AsOf                string    `json:"as_of"`
	Method              string    `json:"method"`
	PaymentFrequency    string    `json:"payment_frequency"`
	ExtraMonthlyPayment int64     `json:"extra_monthly_payment_cents"`
	FocusDebtID         *string   `json:"focus_debt_id,omitempty"`
	DebtFreeDate        *string   `json:"debt_free_date,omitempty"`
	TotalCurrentDebt    int64     `json:"total_current_debt_cents"`
	TotalInterest       int64     `json:"total_interest_cents"`
	NoDebts             bool      `json:"no_debts"`
	Timestamp           time.Time `json:"timestamp"`
}

// NewPlanComputedMessage summarizes plan into a message stamped with now
func NewPlanComputedMessage(plan *domain.PayoffPlan, now time.Time) *PlanComputedMessage {
	msg := &PlanComputedMessage{
		HouseholdID:         plan.HouseholdID.String(),
		AsOf:                plan.AsOf.Format(time.DateOnly),
		Method:              string(plan.Settings.Method),
		PaymentFrequency:    string(plan.Settings.PaymentFrequency),
		ExtraMonthlyPayment: int64(plan.Settings.ExtraMonthlyPayment),
		TotalCurrentDebt:    int64(plan.Summary.TotalCurrentDebt),
		TotalInterest:       int64(plan.TotalInterest),
		NoDebts:             plan.Strategy.NoDebts,
		Timestamp:           now.UTC(),
	}
	if plan.Strategy.FocusDebtID != nil {
		id := plan.Strategy.FocusDebtID.String()
		msg.FocusDebtID = &id
	}
	if plan.Strategy.DebtFreeDate != nil {
		d := plan.Strategy.DebtFreeDate.Format(time.DateOnly)
		msg.DebtFreeDate = &d
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *PlanComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanComputedMessageFromJSON creates a message from JSON bytes
func PlanComputedMessageFromJSON(data []byte) (*PlanComputedMessage, error) {
	var msg PlanComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
