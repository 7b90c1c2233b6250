package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/streeteda/streeteda/internal/domain"
)

// PGCartStore is the Postgres-backed cart.
type PGCartStore struct {
	db *sqlx.DB
}

// NewPGCartStore wraps the shared database handle.
func NewPGCartStore(db *sqlx.DB) *PGCartStore {
	return &PGCartStore{db: db}
}

func (s *PGCartStore) Lines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := s.db.SelectContext(ctx, &lines,
		`SELECT c.item_id, m.name, m.price, c.quantity
		   FROM cart c
		   JOIN menu_items m ON m.id = c.item_id
		  WHERE c.user_id = $1
		  ORDER BY m.name`, userID)
	if err != nil {
		return nil, domain.WrapStore("cart.lines", err)
	}
	return lines, nil
}

// Upsert relies on the (user_id, item_id) primary key so two concurrent
// calls for the same pair both land as increments, never a lost update.
func (s *PGCartStore) Upsert(ctx context.Context, userID, itemID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart (user_id, item_id, quantity)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, item_id)
		 DO UPDATE SET quantity = cart.quantity + 1`, userID, itemID)
	if err != nil {
		return domain.WrapStore("cart.upsert", err)
	}
	return nil
}

// Remove deletes the row if present; removing an absent line is a no-op.
func (s *PGCartStore) Remove(ctx context.Context, userID, itemID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return domain.WrapStore("cart.remove", err)
	}
	return nil
}

func (s *PGCartStore) Clear(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = $1`, userID)
	if err != nil {
		return domain.WrapStore("cart.clear", err)
	}
	return nil
}
