//go:build integration

package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-payoff/internal/domain"
)

// Run with: DB_CONN_STR="host=localhost user=postgres password=postgres dbname=payoff_test sslmode=disable" go test -tags integration ./...
func newPostgresTestDB(t *testing.T) *DB {
	t.Helper()
	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		t.Skip("DB_CONN_STR not set")
	}

	db, err := NewPostgresDB(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	return db
}

func TestPostgres_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newPostgresTestDB(t)
	assert.Equal(t, DialectPostgres, db.Dialect())

	household := uuid.New()
	require.NoError(t, NewHouseholdRepository(db).Create(ctx, household, "Integration"))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM households WHERE id = $1`, household)
	})

	cycle := 28
	card := domain.LiabilityAccount{
		ID: uuid.New(), HouseholdID: household, Name: "Visa", Type: domain.AccountTypeCreditCard,
		Balance: 250000, MinimumPayment: 7500, InterestRate: decimal.RequireFromString("24.99"),
		CompoundingFrequency: "daily", BillingCycleDays: &cycle,
	}
	accounts := NewAccountRepository(db)
	require.NoError(t, accounts.Create(ctx, &card))

	bill := domain.DebtBill{
		ID: uuid.New(), HouseholdID: household, Name: "Visa payment", IsDebt: true, IsActive: true,
		Amount: 7500, RemainingBalance: 250000, InterestRate: decimal.RequireFromString("24.99"), LinkedAccountID: &card.ID,
	}
	require.NoError(t, NewBillRepository(db).Create(ctx, &bill))

	paidOn := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	payments := NewPaymentRepository(db)
	require.NoError(t, payments.Create(ctx, household, &domain.PaymentEvent{ID: uuid.New(), DebtID: card.ID, Date: paidOn, PrincipalAmount: 5000}))

	gotAccounts, err := accounts.ListByHousehold(ctx, household)
	require.NoError(t, err)
	require.Len(t, gotAccounts, 1)
	assert.True(t, card.InterestRate.Equal(gotAccounts[0].InterestRate))
	require.NotNil(t, gotAccounts[0].BillingCycleDays)
	assert.Equal(t, 28, *gotAccounts[0].BillingCycleDays)

	gotBills, err := NewBillRepository(db).ListByHousehold(ctx, household)
	require.NoError(t, err)
	require.Len(t, gotBills, 1)
	require.NotNil(t, gotBills[0].LinkedAccountID)
	assert.Equal(t, card.ID, *gotBills[0].LinkedAccountID)

	gotPayments, err := payments.ListByHousehold(ctx, household, paidOn)
	require.NoError(t, err)
	require.Len(t, gotPayments, 1)
	assert.Equal(t, paidOn, gotPayments[0].Date)

	settings := NewSettingsRepository(db)
	_, err = settings.GetRaw(ctx, household)
	assert.ErrorIs(t, err, domain.ErrSettingsNotFound)

	method := "snowball"
	require.NoError(t, settings.Save(ctx, household, &domain.RawStrategySettings{PayoffMethod: &method}))
	raw, err := settings.GetRaw(ctx, household)
	require.NoError(t, err)
	assert.Equal(t, "snowball", *raw.PayoffMethod)
	assert.Nil(t, raw.ExtraPaymentCents)
}
