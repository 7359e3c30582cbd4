package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReservationStatusActive    = "ACTIVE"
	ReservationStatusFulfilled = "FULFILLED"
	ReservationStatusExpired   = "EXPIRED"
)

// ReservationHoldDays is how long a reservation stays valid after creation
const ReservationHoldDays = 7

// Reservation is a pending hold on a fully-loaned item. At most one ACTIVE
// reservation may exist per (item, user) pair. Returned copies are handed to
// the earliest ACTIVE reservation for the item.
type Reservation struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ItemID          string    `json:"item_id" db:"item_id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	ReservationDate time.Time `json:"reservation_date" db:"reservation_date"`
	ExpirationDate  time.Time `json:"expiration_date" db:"expiration_date"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type ReserveRequest struct {
	ItemID string `json:"item_id" validate:"required"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
}

type QueuePositionResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Position      *int      `json:"position"`
}
