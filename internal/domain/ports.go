package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HouseholdRepository checks household existence
type HouseholdRepository interface {
	Exists(ctx context.Context, householdID uuid.UUID) (bool, error)
}

// AccountRepository reads liability accounts
type AccountRepository interface {
	// ListByHousehold returns every account of the household, debts or not
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]LiabilityAccount, error)
}

// BillRepository reads recurring bills
type BillRepository interface {
	// ListByHousehold returns every bill of the household, including non-debt bills
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]DebtBill, error)
}

// DebtRecordRepository reads standalone debt records
type DebtRecordRepository interface {
	// ListByHousehold returns every debt record of the household regardless of status
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]DebtRecord, error)
}

// PaymentRepository reads recorded payment events
type PaymentRepository interface {
	// ListByHousehold returns payments dated on or after since, oldest first
	ListByHousehold(ctx context.Context, householdID uuid.UUID, since time.Time) ([]PaymentEvent, error)
}

// SettingsRepository reads stored strategy settings in whatever generation they were written
type SettingsRepository interface {
	// GetRaw returns ErrSettingsNotFound when the household has no settings row
	GetRaw(ctx context.Context, householdID uuid.UUID) (*RawStrategySettings, error)
}

// PlanCache stores serialized plans
type PlanCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PlanPublisher announces computed plans to downstream consumers
type PlanPublisher interface {
	PublishPlanComputed(ctx context.Context, plan *PayoffPlan) error
}
