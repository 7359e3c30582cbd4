package domain

import (
	"time"

	"github.com/google/uuid"
)

// Loan represents one copy of an item lent to a user. A loan is Active while
// ReturnDate is nil and terminal once it is set; renewal only moves the due
// date, it never changes state.
type Loan struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ItemID           string     `json:"item_id" db:"item_id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	PolicyID         int64      `json:"policy_id" db:"policy_id"`
	LoanDate         time.Time  `json:"loan_date" db:"loan_date"`
	DueDate          time.Time  `json:"due_date" db:"due_date"`
	ReturnDate       *time.Time `json:"return_date,omitempty" db:"return_date"`
	RenewalCount     int        `json:"renewal_count" db:"renewal_count"`
	RenewalDueDate   *time.Time `json:"renewal_due_date,omitempty" db:"renewal_due_date"`
	RenewalReason    *string    `json:"renewal_reason,omitempty" db:"renewal_reason"`
	LastReminderSent *time.Time `json:"last_reminder_sent,omitempty" db:"last_reminder_sent"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// EffectiveDueDate is the renewal due date if the loan has been renewed,
// otherwise the original due date.
func (l *Loan) EffectiveDueDate() time.Time {
	if l.RenewalDueDate != nil {
		return *l.RenewalDueDate
	}
	return l.DueDate
}

// IsReturned reports whether the loan is closed
func (l *Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// IsOverdue reports whether the loan is past its effective due date and
// still open. Due dates are calendar days: a loan is not overdue on its due
// day, only from the day after.
func (l *Loan) IsOverdue(now time.Time) bool {
	if l.IsReturned() {
		return false
	}
	return now.UTC().Truncate(24*time.Hour).After(l.EffectiveDueDate())
}

// LoanRenewal is an append-only audit record of a single renewal
type LoanRenewal struct {
	ID              uuid.UUID `json:"id" db:"id"`
	LoanID          uuid.UUID `json:"loan_id" db:"loan_id"`
	RenewalDate     time.Time `json:"renewal_date" db:"renewal_date"`
	PreviousDueDate time.Time `json:"previous_due_date" db:"previous_due_date"`
	NewDueDate      time.Time `json:"new_due_date" db:"new_due_date"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	CreatedBy       int64     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CheckoutRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
}

type RenewRequest struct {
	Reason string `json:"reason"`
}
