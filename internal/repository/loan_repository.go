package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, item_id, user_id, policy_id, loan_date, due_date, return_date,
		renewal_count, renewal_due_date, renewal_reason, last_reminder_sent, created_at, updated_at`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, item_id, user_id, policy_id, loan_date, due_date, renewal_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.ItemID,
		loan.UserID,
		loan.PolicyID,
		loan.LoanDate,
		loan.DueDate,
		loan.RenewalCount,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET due_date = $2, return_date = $3, renewal_count = $4, renewal_due_date = $5,
			renewal_reason = $6, last_reminder_sent = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.DueDate,
		loan.ReturnDate,
		loan.RenewalCount,
		loan.RenewalDueDate,
		loan.RenewalReason,
		loan.LastReminderSent,
		time.Now(),
	)

	return err
}

func (r *loanRepository) CountActiveByItemID(ctx context.Context, itemID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loans
		WHERE item_id = $1 AND return_date IS NULL
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, itemID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1
		ORDER BY loan_date DESC
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, userID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) GetActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE return_date IS NULL
		ORDER BY due_date
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateLastReminderSent(ctx context.Context, loanID uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE loans
		SET last_reminder_sent = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, loanID, sentAt, time.Now())
	return err
}

// ApplyRenewal writes the audit record and the mutated loan atomically so a
// renewal can never be observed without its history row.
func (r *loanRepository) ApplyRenewal(ctx context.Context, loan *domain.Loan, renewal *domain.LoanRenewal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	renewalQuery := `
		INSERT INTO loan_renewals (id, loan_id, renewal_date, previous_due_date, new_due_date, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(ctx, renewalQuery,
		renewal.ID,
		renewal.LoanID,
		renewal.RenewalDate,
		renewal.PreviousDueDate,
		renewal.NewDueDate,
		renewal.Reason,
		renewal.CreatedBy,
		renewal.CreatedAt,
	)
	if err != nil {
		return err
	}

	loanQuery := `
		UPDATE loans
		SET renewal_count = $2, renewal_due_date = $3, renewal_reason = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.RenewalCount,
		loan.RenewalDueDate,
		loan.RenewalReason,
		time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CompleteReturn commits the whole return as one transaction so a crash can
// never leave a returned loan without its fine or an un-advanced queue.
func (r *loanRepository) CompleteReturn(ctx context.Context, loan *domain.Loan, item *domain.Item, fine *domain.Fine, fulfilled *domain.Reservation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	loanQuery := `
		UPDATE loans
		SET return_date = $2, updated_at = $3
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, loanQuery, loan.ID, loan.ReturnDate, time.Now()); err != nil {
		return err
	}

	// Recompute availability inside the transaction, after the loan closes
	var activeLoans int
	countQuery := `
		SELECT COUNT(*)
		FROM loans
		WHERE item_id = $1 AND return_date IS NULL
	`
	if err := tx.GetContext(ctx, &activeLoans, countQuery, item.ID); err != nil {
		return err
	}

	item.CopiesAvailable = item.CopiesOwned - activeLoans

	itemQuery := `
		UPDATE items
		SET copies_available = $2, updated_at = $3
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, itemQuery, item.ID, item.CopiesAvailable, time.Now()); err != nil {
		return err
	}

	if fine != nil {
		fineQuery := `
			INSERT INTO fines (id, loan_id, amount, reason, date_issued, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, fineQuery,
			fine.ID,
			fine.LoanID,
			fine.Amount,
			fine.Reason,
			fine.DateIssued,
			fine.CreatedAt,
		); err != nil {
			return err
		}
	}

	if fulfilled != nil {
		reservationQuery := `
			UPDATE reservations
			SET status = $2, updated_at = $3
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, reservationQuery, fulfilled.ID, fulfilled.Status, time.Now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetRenewalsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanRenewal, error) {
	query := `
		SELECT id, loan_id, renewal_date, previous_due_date, new_due_date, reason, created_by, created_at
		FROM loan_renewals
		WHERE loan_id = $1
		ORDER BY renewal_date DESC
	`

	var renewals []*domain.LoanRenewal
	err := r.db.SelectContext(ctx, &renewals, query, loanID)
	if err != nil {
		return nil, err
	}

	return renewals, nil
}
