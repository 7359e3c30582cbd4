package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fine is an overdue charge tied to exactly one loan. At most one fine is
// created per overdue return; a fine is never deleted.
type Fine struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	LoanID     uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Reason     string          `json:"reason" db:"reason"`
	DateIssued time.Time       `json:"date_issued" db:"date_issued"`
	DatePaid   *time.Time      `json:"date_paid,omitempty" db:"date_paid"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// IsPaid reports whether the fine has been settled
func (f *Fine) IsPaid() bool {
	return f.DatePaid != nil
}
