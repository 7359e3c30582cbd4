package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type policyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetByItemType(ctx context.Context, itemType string) (*domain.LoanPolicy, error) {
	query := `
		SELECT id, item_type, loan_period_days, max_renewals, grace_period_days, reminder_days, created_at, updated_at
		FROM loan_policies
		WHERE item_type = $1
	`

	var policy domain.LoanPolicy
	err := r.db.GetContext(ctx, &policy, query, itemType)
	if err != nil {
		return nil, err
	}

	return &policy, nil
}
