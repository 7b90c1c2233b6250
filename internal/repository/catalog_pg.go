package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
)

const pgUniqueViolation = "23505"

// PGCatalogStore is the Postgres-backed catalog.
type PGCatalogStore struct {
	db *sqlx.DB
}

// NewPGCatalogStore wraps the shared database handle.
func NewPGCatalogStore(db *sqlx.DB) *PGCatalogStore {
	return &PGCatalogStore{db: db}
}

func (s *PGCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := s.db.SelectContext(ctx, &cats,
		`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.WrapStore("catalog.list_categories", err)
	}
	return cats, nil
}

func (s *PGCatalogStore) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return 0, domain.ErrDuplicate
		}
		return 0, domain.WrapStore("catalog.create_category", err)
	}
	return id, nil
}

// DeleteCategory removes cart lines, items and finally the category itself
// in one transaction so no intermediate state leaves dangling references.
func (s *PGCatalogStore) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapStore("catalog.delete_category.begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart WHERE item_id IN (SELECT id FROM menu_items WHERE category_id = $1)`, id); err != nil {
		return domain.WrapStore("catalog.delete_category.cart", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM menu_items WHERE category_id = $1`, id); err != nil {
		return domain.WrapStore("catalog.delete_category.items", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return domain.WrapStore("catalog.delete_category", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapStore("catalog.delete_category.affected", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return domain.WrapStore("catalog.delete_category.commit", err)
	}

	logger.DB.Info("catalog",
		slog.String("event", "category.deleted"),
		slog.Int64("category_id", id),
	)
	return nil
}

func (s *PGCatalogStore) ListItems(ctx context.Context, categoryID int64) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := s.db.SelectContext(ctx, &items,
		`SELECT id, name, description, price, photo_id, category_id
		   FROM menu_items
		  WHERE category_id = $1
		  ORDER BY name`, categoryID)
	if err != nil {
		return nil, domain.WrapStore("catalog.list_items", err)
	}
	return items, nil
}

func (s *PGCatalogStore) GetItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := s.db.GetContext(ctx, &item,
		`SELECT id, name, description, price, photo_id, category_id
		   FROM menu_items
		  WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MenuItem{}, domain.WrapStore("catalog.get_item", err)
	}
	return item, nil
}

func (s *PGCatalogStore) CreateItem(ctx context.Context, item domain.MenuItem) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO menu_items (name, description, price, photo_id, category_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		item.Name, item.Description, item.Price, item.PhotoID, item.CategoryID)
	if err != nil {
		return 0, domain.WrapStore("catalog.create_item", err)
	}
	return id, nil
}

func (s *PGCatalogStore) UpdatePrice(ctx context.Context, id, price int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE menu_items SET price = $2 WHERE id = $1`, id, price)
	if err != nil {
		return domain.WrapStore("catalog.update_price", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapStore("catalog.update_price.affected", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem removes dependent cart lines before the item itself.
func (s *PGCatalogStore) DeleteItem(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapStore("catalog.delete_item.begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart WHERE item_id = $1`, id); err != nil {
		return domain.WrapStore("catalog.delete_item.cart", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return domain.WrapStore("catalog.delete_item", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapStore("catalog.delete_item.affected", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return domain.WrapStore("catalog.delete_item.commit", err)
	}

	logger.DB.Info("catalog",
		slog.String("event", "item.deleted"),
		slog.Int64("item_id", id),
	)
	return nil
}
