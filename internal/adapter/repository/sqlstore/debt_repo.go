package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// DebtRecordRepository implements domain.DebtRecordRepository
type DebtRecordRepository struct {
	db *DB
}

// NewDebtRecordRepository creates a new debt record repository
func NewDebtRecordRepository(db *DB) *DebtRecordRepository {
	return &DebtRecordRepository{db: db}
}

// ListByHousehold returns every debt record of the household regardless of status
func (r *DebtRecordRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]domain.DebtRecord, error) {
	query := `
		SELECT id, household_id, name, status,
		       remaining_balance_cents, original_balance_cents, minimum_payment_cents, additional_payment_cents,
		       interest_rate, loan_type, compounding_frequency, billing_cycle_days
		FROM debts
		WHERE household_id = $1
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	records := []domain.DebtRecord{}
	for rows.Next() {
		var rec domain.DebtRecord
		var remaining, original, minimum, additional int64
		var rate string
		var cycle sql.NullInt64

		if err := rows.Scan(
			&rec.ID,
			&rec.HouseholdID,
			&rec.Name,
			&rec.Status,
			&remaining,
			&original,
			&minimum,
			&additional,
			&rate,
			&rec.LoanType,
			&rec.CompoundingFrequency,
			&cycle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}

		rec.RemainingBalance = money.Cents(remaining)
		rec.OriginalBalance = money.Cents(original)
		rec.MinimumPayment = money.Cents(minimum)
		rec.AdditionalMonthlyPayment = money.Cents(additional)
		rec.BillingCycleDays = intPtr(cycle)
		if rec.InterestRate, err = parseRate(rate); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return records, nil
}

// Create inserts a debt record
func (r *DebtRecordRepository) Create(ctx context.Context, rec *domain.DebtRecord) error {
	query := `
		INSERT INTO debts (id, household_id, name, status,
		                   remaining_balance_cents, original_balance_cents, minimum_payment_cents, additional_payment_cents,
		                   interest_rate, loan_type, compounding_frequency, billing_cycle_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.HouseholdID,
		rec.Name,
		string(rec.Status),
		int64(rec.RemainingBalance),
		int64(rec.OriginalBalance),
		int64(rec.MinimumPayment),
		int64(rec.AdditionalMonthlyPayment),
		rec.InterestRate.String(),
		rec.LoanType,
		rec.CompoundingFrequency,
		nullInt(rec.BillingCycleDays),
	)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}
	return nil
}
