// Package repository defines the storage interfaces the ordering engines
// depend on, together with Postgres and in-memory implementations.
package repository

import (
	"context"

	"github.com/streeteda/streeteda/internal/domain"
)

// CatalogStore manages categories, menu items and their cascading deletes.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (int64, error)
	// DeleteCategory removes the category, its items and any cart lines
	// referencing those items in one transaction.
	DeleteCategory(ctx context.Context, id int64) error

	ListItems(ctx context.Context, categoryID int64) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (domain.MenuItem, error)
	CreateItem(ctx context.Context, item domain.MenuItem) (int64, error)
	UpdatePrice(ctx context.Context, id, price int64) error
	// DeleteItem removes the item and any cart lines referencing it.
	DeleteItem(ctx context.Context, id int64) error
}

// CartStore manages per-user cart lines.
type CartStore interface {
	// Lines returns the cart joined with current catalog names and prices.
	Lines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	// Upsert adds the item with quantity 1 or atomically increments an
	// existing (user, item) row.
	Upsert(ctx context.Context, userID, itemID int64) error
	// Remove deletes a single (user, item) row; absent rows are a no-op.
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

// SettingsStore reads and writes the pricing settings.
type SettingsStore interface {
	Get(ctx context.Context) (domain.Settings, error)
	Set(ctx context.Context, key string, value int64) error
}

// OrderStore commits finalized orders.
type OrderStore interface {
	// Create inserts the order with its frozen lines and clears the user's
	// cart, all in one transaction. Returns the new order id.
	Create(ctx context.Context, snap domain.OrderSnapshot) (int64, error)
}

// Stores bundles every store interface for wiring convenience.
type Stores struct {
	Catalog  CatalogStore
	Cart     CartStore
	Settings SettingsStore
	Orders   OrderStore
}
