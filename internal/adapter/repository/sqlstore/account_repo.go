package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
	"github.com/simaogato/wealthflow-payoff/internal/money"
)

// AccountRepository implements domain.AccountRepository
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// ListByHousehold returns every account of the household, ordered by name
func (r *AccountRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]domain.LiabilityAccount, error) {
	query := `
		SELECT id, household_id, name, account_type, is_closed,
		       balance_cents, original_balance_cents, minimum_payment_cents, additional_payment_cents,
		       interest_rate, compounding_frequency, billing_cycle_days
		FROM accounts
		WHERE household_id = $1
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.LiabilityAccount{}
	for rows.Next() {
		var acc domain.LiabilityAccount
		var balance, original, minimum, additional int64
		var rate string
		var cycle sql.NullInt64

		if err := rows.Scan(
			&acc.ID,
			&acc.HouseholdID,
			&acc.Name,
			&acc.Type,
			&acc.IsClosed,
			&balance,
			&original,
			&minimum,
			&additional,
			&rate,
			&acc.CompoundingFrequency,
			&cycle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		acc.Balance = money.Cents(balance)
		acc.OriginalBalance = money.Cents(original)
		acc.MinimumPayment = money.Cents(minimum)
		acc.AdditionalMonthlyPayment = money.Cents(additional)
		acc.BillingCycleDays = intPtr(cycle)
		if acc.InterestRate, err = parseRate(rate); err != nil {
			return nil, err
		}

		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// Create inserts an account
func (r *AccountRepository) Create(ctx context.Context, acc *domain.LiabilityAccount) error {
	query := `
		INSERT INTO accounts (id, household_id, name, account_type, is_closed,
		                      balance_cents, original_balance_cents, minimum_payment_cents, additional_payment_cents,
		                      interest_rate, compounding_frequency, billing_cycle_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		acc.ID,
		acc.HouseholdID,
		acc.Name,
		string(acc.Type),
		acc.IsClosed,
		int64(acc.Balance),
		int64(acc.OriginalBalance),
		int64(acc.MinimumPayment),
		int64(acc.AdditionalMonthlyPayment),
		acc.InterestRate.String(),
		acc.CompoundingFrequency,
		nullInt(acc.BillingCycleDays),
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}
