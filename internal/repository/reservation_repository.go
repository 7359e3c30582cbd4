package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type reservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, item_id, user_id, reservation_date, expiration_date, status, created_at, updated_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, item_id, user_id, reservation_date, expiration_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.ItemID,
		reservation.UserID,
		reservation.ReservationDate,
		reservation.ExpirationDate,
		reservation.Status,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1
	`

	var reservation domain.Reservation
	err := r.db.GetContext(ctx, &reservation, query, id)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, reservation.ID, reservation.Status, time.Now())
	return err
}

// GetActiveByItemID orders by reservation date with the ID as tie-break so
// queue positions form a total order.
func (r *reservationRepository) GetActiveByItemID(ctx context.Context, itemID string) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE item_id = $1 AND status = $2
		ORDER BY reservation_date, id
	`

	var reservations []*domain.Reservation
	err := r.db.SelectContext(ctx, &reservations, query, itemID, domain.ReservationStatusActive)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) FindActiveByItemAndUser(ctx context.Context, itemID string, userID int64) (*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE item_id = $1 AND user_id = $2 AND status = $3
	`

	var reservation domain.Reservation
	err := r.db.GetContext(ctx, &reservation, query, itemID, userID, domain.ReservationStatusActive)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) CountActiveByItemID(ctx context.Context, itemID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE item_id = $1 AND status = $2
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, itemID, domain.ReservationStatusActive)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reservationRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY reservation_date DESC
	`

	var reservations []*domain.Reservation
	err := r.db.SelectContext(ctx, &reservations, query, userID)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}
