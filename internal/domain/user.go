package domain

import "time"

const (
	UserStatusActive    = "ACTIVE"
	UserStatusSuspended = "SUSPENDED"
	UserStatusExpired   = "EXPIRED"
)

// User represents a borrower account. Registration and authentication are
// handled elsewhere; the circulation engine only reads identity and status.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsActive reports whether the account may borrow and renew
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
