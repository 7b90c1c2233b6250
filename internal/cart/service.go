// Package cart exposes cart mutation operations invoked from outside the
// conversational flow; none of them touch session state.
package cart

import (
	"context"

	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
)

// View is the read-only aggregation of a user's cart.
type View struct {
	Lines    []domain.CartLine
	Subtotal int64
}

// Empty reports whether the cart has no lines.
func (v View) Empty() bool { return len(v.Lines) == 0 }

// Service wraps the cart store with logging and subtotal computation.
type Service struct {
	cart    repository.CartStore
	catalog repository.CatalogStore
}

// NewService wires the cart service.
func NewService(cart repository.CartStore, catalog repository.CatalogStore) *Service {
	return &Service{cart: cart, catalog: catalog}
}

// Add upserts one unit of the item into the user's cart. The item must
// exist in the catalog; the added line carries no session side effects.
func (s *Service) Add(ctx context.Context, userID, itemID int64) (domain.MenuItem, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.cart.Upsert(ctx, userID, itemID); err != nil {
		return domain.MenuItem{}, err
	}
	logger.Info(ctx, "service.cart", "cart.added",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
	)
	return item, nil
}

// Remove deletes a single line; removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, userID, itemID int64) error {
	if err := s.cart.Remove(ctx, userID, itemID); err != nil {
		return err
	}
	logger.Info(ctx, "service.cart", "cart.removed",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
	)
	return nil
}

// Clear deletes every line of the user's cart.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	if err := s.cart.Clear(ctx, userID); err != nil {
		return err
	}
	logger.Info(ctx, "service.cart", "cart.cleared",
		slog.Int64("user_id", userID),
	)
	return nil
}

// Get returns the cart lines with the computed subtotal; never mutates.
func (s *Service) Get(ctx context.Context, userID int64) (View, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return View{Lines: lines, Subtotal: domain.Subtotal(lines)}, nil
}
