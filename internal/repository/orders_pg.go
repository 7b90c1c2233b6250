package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
)

// PGOrderStore commits finalized orders.
type PGOrderStore struct {
	db *sqlx.DB
}

// NewPGOrderStore wraps the shared database handle.
func NewPGOrderStore(db *sqlx.DB) *PGOrderStore {
	return &PGOrderStore{db: db}
}

// Create inserts the order row, freezes each line and clears the user's
// cart in a single transaction. Either everything lands or nothing does.
func (s *PGOrderStore) Create(ctx context.Context, snap domain.OrderSnapshot) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, domain.WrapStore("orders.create.begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID int64
	err = tx.GetContext(ctx, &orderID,
		`INSERT INTO orders (user_id, user_name, phone_number, delivery_type, address, comment, total_amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		snap.UserID, snap.UserName, snap.PhoneNumber, snap.DeliveryType,
		snap.Address, snap.Comment, snap.TotalAmount, domain.OrderStatusNew)
	if err != nil {
		return 0, domain.WrapStore("orders.create", err)
	}

	for _, line := range snap.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, item_name, quantity, price_per_item)
			 VALUES ($1, $2, $3, $4)`,
			orderID, line.ItemName, line.Quantity, line.PricePerItem); err != nil {
			return 0, domain.WrapStore("orders.create.line", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = $1`, snap.UserID); err != nil {
		return 0, domain.WrapStore("orders.create.clear_cart", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.WrapStore("orders.create.commit", err)
	}

	logger.DB.Info("orders",
		slog.String("event", "order.committed"),
		slog.Int64("order_id", orderID),
		slog.Int64("user_id", snap.UserID),
		slog.Int("lines", len(snap.Lines)),
		slog.Int64("total", snap.TotalAmount),
	)
	return orderID, nil
}
