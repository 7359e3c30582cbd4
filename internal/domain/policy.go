package domain

import (
	"time"

	"github.com/lib/pq"
)

// LoanPolicy holds the per-item-type circulation rules. Policies are
// read-only from the engine's perspective; administration is external.
type LoanPolicy struct {
	ID              int64         `json:"id" db:"id"`
	ItemType        string        `json:"item_type" db:"item_type"`
	LoanPeriodDays  int           `json:"loan_period_days" db:"loan_period_days"`
	MaxRenewals     int           `json:"max_renewals" db:"max_renewals"`
	GracePeriodDays int           `json:"grace_period_days" db:"grace_period_days"`
	ReminderDays    pq.Int64Array `json:"reminder_days" db:"reminder_days"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}
