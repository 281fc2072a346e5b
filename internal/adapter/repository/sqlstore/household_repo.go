package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// HouseholdRepository implements domain.HouseholdRepository
type HouseholdRepository struct {
	db *DB
}

// NewHouseholdRepository creates a new household repository
func NewHouseholdRepository(db *DB) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

// Exists reports whether a household row exists
func (r *HouseholdRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM households WHERE id = $1`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check household: %w", err)
	}
	return n > 0, nil
}

// Create inserts a household
func (r *HouseholdRepository) Create(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO households (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}
	return nil
}
