package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// PaymentRepository implements domain.PaymentRepository
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new payment event repository
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByHousehold returns payments dated on or after since, oldest first
func (r *PaymentRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID, since time.Time) ([]domain.PaymentEvent, error) {
	query := `
		SELECT id, debt_id, paid_on, principal_cents
		FROM payment_events
		WHERE household_id = $1 AND paid_on >= $2
		ORDER BY paid_on, id
	`

	rows, err := r.db.QueryContext(ctx, query, householdID, formatDate(since))
	if err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	defer rows.Close()

	events := []domain.PaymentEvent{}
	for rows.Next() {
		var ev domain.PaymentEvent
		var paidOn dateValue
		var principal int64

		if err := rows.Scan(&ev.ID, &ev.DebtID, &paidOn, &principal); err != nil {
			return nil, fmt.Errorf("failed to scan payment event: %w", err)
		}
		ev.Date = paidOn.Time
		ev.PrincipalAmount = money.Cents(principal)

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment events: %w", err)
	}

	return events, nil
}

// Create records a payment event for a household
func (r *PaymentRepository) Create(ctx context.Context, householdID uuid.UUID, ev *domain.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (id, household_id, debt_id, paid_on, principal_cents)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, ev.ID, householdID, ev.DebtID, formatDate(ev.Date), int64(ev.PrincipalAmount))
	if err != nil {
		return fmt.Errorf("failed to create payment event: %w", err)
	}
	return nil
}
