package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type fineRepository struct {
	db *sqlx.DB
}

func NewFineRepository(db *sqlx.DB) FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	query := `
		INSERT INTO fines (id, loan_id, amount, reason, date_issued, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		fine.ID,
		fine.LoanID,
		fine.Amount,
		fine.Reason,
		fine.DateIssued,
		fine.CreatedAt,
	)

	return err
}

func (r *fineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fine, error) {
	query := `
		SELECT id, loan_id, amount, reason, date_issued, date_paid, created_at
		FROM fines
		WHERE id = $1
	`

	var fine domain.Fine
	err := r.db.GetContext(ctx, &fine, query, id)
	if err != nil {
		return nil, err
	}

	return &fine, nil
}

func (r *fineRepository) Update(ctx context.Context, fine *domain.Fine) error {
	query := `
		UPDATE fines
		SET date_paid = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, fine.ID, fine.DatePaid)
	return err
}

func (r *fineRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Fine, error) {
	query := `
		SELECT id, loan_id, amount, reason, date_issued, date_paid, created_at
		FROM fines
		WHERE loan_id = $1
		ORDER BY date_issued DESC
	`

	var fines []*domain.Fine
	err := r.db.SelectContext(ctx, &fines, query, loanID)
	if err != nil {
		return nil, err
	}

	return fines, nil
}
