package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adisurya/circulation-engine/internal/domain"
)

type itemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `
		SELECT id, title, policy_type, copies_owned, copies_available, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	var item domain.Item
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *itemRepository) UpdateCopies(ctx context.Context, id string, copiesOwned, copiesAvailable int) error {
	query := `
		UPDATE items
		SET copies_owned = $2, copies_available = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, copiesOwned, copiesAvailable, time.Now())
	return err
}
