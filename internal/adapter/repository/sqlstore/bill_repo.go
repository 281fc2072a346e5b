package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// BillRepository implements domain.BillRepository
type BillRepository struct {
	db *DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) *BillRepository {
	return &BillRepository{db: db}
}

// ListByHousehold returns every bill of the household, debt-flagged or not
func (r *BillRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]domain.DebtBill, error) {
	query := `
		SELECT id, household_id, name, is_debt, is_active,
		       amount_cents, remaining_balance_cents, original_balance_cents, additional_payment_cents,
		       interest_rate, loan_type, compounding_frequency, billing_cycle_days, linked_account_id
		FROM bills
		WHERE household_id = $1
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []domain.DebtBill{}
	for rows.Next() {
		var bill domain.DebtBill
		var amount, remaining, original, additional int64
		var rate string
		var cycle sql.NullInt64
		var linked uuid.NullUUID

		if err := rows.Scan(
			&bill.ID,
			&bill.HouseholdID,
			&bill.Name,
			&bill.IsDebt,
			&bill.IsActive,
			&amount,
			&remaining,
			&original,
			&additional,
			&rate,
			&bill.LoanType,
			&bill.CompoundingFrequency,
			&cycle,
			&linked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}

		bill.Amount = money.Cents(amount)
		bill.RemainingBalance = money.Cents(remaining)
		bill.OriginalBalance = money.Cents(original)
		bill.AdditionalMonthlyPayment = money.Cents(additional)
		bill.BillingCycleDays = intPtr(cycle)
		if linked.Valid {
			id := linked.UUID
			bill.LinkedAccountID = &id
		}
		if bill.InterestRate, err = parseRate(rate); err != nil {
			return nil, err
		}

		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	return bills, nil
}

// Create inserts a bill
func (r *BillRepository) Create(ctx context.Context, bill *domain.DebtBill) error {
	query := `
		INSERT INTO bills (id, household_id, name, is_debt, is_active,
		                   amount_cents, remaining_balance_cents, original_balance_cents, additional_payment_cents,
		                   interest_rate, loan_type, compounding_frequency, billing_cycle_days, linked_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var linked any
	if bill.LinkedAccountID != nil {
		linked = *bill.LinkedAccountID
	}

	_, err := r.db.ExecContext(ctx, query,
		bill.ID,
		bill.HouseholdID,
		bill.Name,
		bill.IsDebt,
		bill.IsActive,
		int64(bill.Amount),
		int64(bill.RemainingBalance),
		int64(bill.OriginalBalance),
		int64(bill.AdditionalMonthlyPayment),
		bill.InterestRate.String(),
		bill.LoanType,
		bill.CompoundingFrequency,
		nullInt(bill.BillingCycleDays),
		linked,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}
