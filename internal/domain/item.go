package domain

import (
	"time"
)

// Item represents a catalog unit with a bounded number of physical copies.
// Invariant: CopiesAvailable == CopiesOwned - count(active loans for item).
type Item struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	PolicyType      string    `json:"policy_type" db:"policy_type"`
	CopiesOwned     int       `json:"copies_owned" db:"copies_owned"`
	CopiesAvailable int       `json:"copies_available" db:"copies_available"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateInventoryRequest struct {
	CopiesOwned int `json:"copies_owned" validate:"gte=0"`
}

// InventoryStatus reports the copy accounting for an item
type InventoryStatus struct {
	ItemID             string `json:"item_id"`
	CopiesOwned        int    `json:"copies_owned"`
	CopiesAvailable    int    `json:"copies_available"`
	CopiesOnLoan       int    `json:"copies_on_loan"`
	ActiveReservations int    `json:"active_reservations"`
}
