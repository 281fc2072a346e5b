package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository.
// Rows may carry either settings generation; both are returned as stored.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new strategy settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetRaw returns domain.ErrSettingsNotFound when the household has no row
func (r *SettingsRepository) GetRaw(ctx context.Context, householdID uuid.UUID) (*domain.RawStrategySettings, error) {
	query := `
		SELECT payoff_method, extra_payment_cents, payment_frequency, debt_strategy, debt_extra_payment
		FROM strategy_settings
		WHERE household_id = $1
	`

	var method, frequency, legacyStrategy, legacyExtra sql.NullString
	var extra sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, householdID).Scan(&method, &extra, &frequency, &legacyStrategy, &legacyExtra)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get strategy settings: %w", err)
	}

	return &domain.RawStrategySettings{
		PayoffMethod:      stringPtr(method),
		ExtraPaymentCents: int64Ptr(extra),
		PaymentFrequency:  stringPtr(frequency),
		DebtStrategy:      stringPtr(legacyStrategy),
		DebtExtraPayment:  stringPtr(legacyExtra),
	}, nil
}

// Save inserts or replaces the household's settings row
func (r *SettingsRepository) Save(ctx context.Context, householdID uuid.UUID, raw *domain.RawStrategySettings) error {
	query := `
		INSERT INTO strategy_settings (household_id, payoff_method, extra_payment_cents, payment_frequency, debt_strategy, debt_extra_payment)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (household_id) DO UPDATE SET
			payoff_method = excluded.payoff_method,
			extra_payment_cents = excluded.extra_payment_cents,
			payment_frequency = excluded.payment_frequency,
			debt_strategy = excluded.debt_strategy,
			debt_extra_payment = excluded.debt_extra_payment
	`

	_, err := r.db.ExecContext(ctx, query,
		householdID,
		nullString(raw.PayoffMethod),
		nullInt64(raw.ExtraPaymentCents),
		nullString(raw.PaymentFrequency),
		nullString(raw.DebtStrategy),
		nullString(raw.DebtExtraPayment),
	)
	if err != nil {
		return fmt.Errorf("failed to save strategy settings: %w", err)
	}
	return nil
}
