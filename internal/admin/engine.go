// Package admin implements the operator-facing configuration dialogue:
// catalog and pricing mutations behind an authorization gate that is
// checked before every transition and every action.
package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

// Kind classifies an engine reply.
type Kind string

const (
	KindNone       Kind = ""
	KindPrompt     Kind = "prompt"
	KindError      Kind = "error"
	KindCompletion Kind = "completion"
)

// Code identifies the reply for rendering by the transport layer.
type Code string

const (
	CodeAskCategoryName    Code = "ask_category_name"
	CodeAskItemName        Code = "ask_item_name"
	CodeAskItemDescription Code = "ask_item_description"
	CodeAskItemPrice       Code = "ask_item_price"
	CodeAskItemPhoto       Code = "ask_item_photo"
	CodeAskNewPrice        Code = "ask_new_price"
	CodeAskSettingValue    Code = "ask_setting_value"

	CodeEmptyName         Code = "empty_name"
	CodeDuplicateCategory Code = "duplicate_category"
	CodeInvalidPrice      Code = "invalid_price"
	CodeInvalidValue      Code = "invalid_value"
	CodeUnknownSetting    Code = "unknown_setting"
	CodeDenied            Code = "denied"
	CodeStoreRetry        Code = "store_retry"

	CodeCategoryCreated Code = "category_created"
	CodeCategoryDeleted Code = "category_deleted"
	CodeItemCreated     Code = "item_created"
	CodeItemDeleted     Code = "item_deleted"
	CodePriceUpdated    Code = "price_updated"
	CodeSettingUpdated  Code = "setting_updated"
	CodeCancelled       Code = "cancelled"
)

// Reply is the engine's outbound result.
type Reply struct {
	Kind Kind
	Code Code
	ID   int64 // created entity id on completion, when applicable
}

// Input is one inbound operator turn.
type Input struct {
	Text    string
	PhotoID string // set when the turn carries a photo
}

// noPhotoSentinels skip the optional item photo.
var noPhotoSentinels = map[string]struct{}{
	"нет": {},
	"no":  {},
	"-":   {},
}

// Engine drives the admin dialogue.
type Engine struct {
	sessions *session.Store
	catalog  repository.CatalogStore
	settings repository.SettingsStore
	isAdmin  func(userID int64) bool
}

// NewEngine wires the admin engine. isAdmin gates every operation.
func NewEngine(sessions *session.Store, catalog repository.CatalogStore, settings repository.SettingsStore, isAdmin func(int64) bool) *Engine {
	return &Engine{
		sessions: sessions,
		catalog:  catalog,
		settings: settings,
		isAdmin:  isAdmin,
	}
}

// InProgress reports whether the user is inside the admin dialogue.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.Step(userID).AdminFlow()
}

func (e *Engine) authorize(ctx context.Context, userID int64, action string) error {
	if e.isAdmin != nil && e.isAdmin(userID) {
		return nil
	}
	logger.Warn(ctx, "service.admin", "access.denied",
		slog.String("status", "denied"),
		slog.Int64("user_id", userID),
		slog.String("action", action),
	)
	return domain.ErrNotAuthorized
}

// BeginAddCategory starts the category-creation chain.
func (e *Engine) BeginAddCategory(ctx context.Context, userID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "add_category"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	e.sessions.Begin(userID, session.StepAwaitingCategoryName)
	return Reply{Kind: KindPrompt, Code: CodeAskCategoryName}, nil
}

// BeginAddItem starts the item-creation chain within the given category.
func (e *Engine) BeginAddItem(ctx context.Context, userID, categoryID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "add_item"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	e.sessions.Begin(userID, session.StepAwaitingItemName)
	e.sessions.UpdateAdmin(userID, session.StepAwaitingItemName, func(d *session.AdminDraft) {
		d.CategoryID = categoryID
	})
	return Reply{Kind: KindPrompt, Code: CodeAskItemName}, nil
}

// BeginReprice starts the single-step price change for an item.
func (e *Engine) BeginReprice(ctx context.Context, userID, itemID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "reprice"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	if _, err := e.catalog.GetItem(ctx, itemID); err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	e.sessions.Begin(userID, session.StepAwaitingNewPrice)
	e.sessions.UpdateAdmin(userID, session.StepAwaitingNewPrice, func(d *session.AdminDraft) {
		d.ItemID = itemID
	})
	return Reply{Kind: KindPrompt, Code: CodeAskNewPrice}, nil
}

// BeginSetSetting starts the single-step settings change.
func (e *Engine) BeginSetSetting(ctx context.Context, userID int64, key string) (Reply, error) {
	if err := e.authorize(ctx, userID, "set_setting"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	if key != domain.SettingDeliveryFee && key != domain.SettingFreeDeliveryThreshold {
		return Reply{Kind: KindError, Code: CodeUnknownSetting}, nil
	}
	e.sessions.Begin(userID, session.StepAwaitingSettingValue)
	e.sessions.UpdateAdmin(userID, session.StepAwaitingSettingValue, func(d *session.AdminDraft) {
		d.SettingKey = key
	})
	return Reply{Kind: KindPrompt, Code: CodeAskSettingValue}, nil
}

// Handle processes one free-form turn according to the current step.
func (e *Engine) Handle(ctx context.Context, userID int64, in Input) (Reply, error) {
	if err := e.authorize(ctx, userID, "handle"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}

	switch e.sessions.Step(userID) {
	case session.StepAwaitingCategoryName:
		return e.handleCategoryName(ctx, userID, in.Text)
	case session.StepAwaitingItemName:
		return e.handleItemName(userID, in.Text)
	case session.StepAwaitingItemDescription:
		return e.handleItemDescription(userID, in.Text)
	case session.StepAwaitingItemPrice:
		return e.handleItemPrice(userID, in.Text)
	case session.StepAwaitingItemPhoto:
		return e.handleItemPhoto(ctx, userID, in)
	case session.StepAwaitingNewPrice:
		return e.handleNewPrice(ctx, userID, in.Text)
	case session.StepAwaitingSettingValue:
		return e.handleSettingValue(ctx, userID, in.Text)
	}
	return Reply{}, nil
}

func (e *Engine) handleCategoryName(ctx context.Context, userID int64, text string) (Reply, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return Reply{Kind: KindError, Code: CodeEmptyName}, nil
	}
	id, err := e.catalog.CreateCategory(ctx, name)
	if errors.Is(err, domain.ErrDuplicate) {
		// No mutation happened; the step stays for a corrected name.
		return Reply{Kind: KindError, Code: CodeDuplicateCategory}, nil
	}
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	e.sessions.Clear(userID)
	logger.Info(ctx, "service.admin", "category.created",
		slog.Int64("user_id", userID),
		slog.Int64("category_id", id),
	)
	return Reply{Kind: KindCompletion, Code: CodeCategoryCreated, ID: id}, nil
}

func (e *Engine) handleItemName(userID int64, text string) (Reply, error) {
	name := strings.TrimSpace(text)
	if name == "" {
		return Reply{Kind: KindError, Code: CodeEmptyName}, nil
	}
	e.sessions.UpdateAdmin(userID, session.StepAwaitingItemDescription, func(d *session.AdminDraft) {
		d.ItemName = name
	})
	return Reply{Kind: KindPrompt, Code: CodeAskItemDescription}, nil
}

func (e *Engine) handleItemDescription(userID int64, text string) (Reply, error) {
	e.sessions.UpdateAdmin(userID, session.StepAwaitingItemPrice, func(d *session.AdminDraft) {
		d.ItemDescription = strings.TrimSpace(text)
	})
	return Reply{Kind: KindPrompt, Code: CodeAskItemPrice}, nil
}

func (e *Engine) handleItemPrice(userID int64, text string) (Reply, error) {
	price, ok := parseAmount(text)
	if !ok || price <= 0 {
		return Reply{Kind: KindError, Code: CodeInvalidPrice}, nil
	}
	e.sessions.UpdateAdmin(userID, session.StepAwaitingItemPhoto, func(d *session.AdminDraft) {
		d.ItemPrice = price
	})
	return Reply{Kind: KindPrompt, Code: CodeAskItemPhoto}, nil
}

// handleItemPhoto finishes item creation; the photo is optional and can
// be skipped with a sentinel word.
func (e *Engine) handleItemPhoto(ctx context.Context, userID int64, in Input) (Reply, error) {
	var photoID *string
	if in.PhotoID != "" {
		p := in.PhotoID
		photoID = &p
	} else if _, skip := noPhotoSentinels[strings.ToLower(strings.TrimSpace(in.Text))]; !skip {
		return Reply{Kind: KindError, Code: CodeAskItemPhoto}, nil
	}

	draft := e.sessions.Get(userID).Admin
	id, err := e.catalog.CreateItem(ctx, domain.MenuItem{
		Name:        draft.ItemName,
		Description: draft.ItemDescription,
		Price:       draft.ItemPrice,
		PhotoID:     photoID,
		CategoryID:  draft.CategoryID,
	})
	if err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	e.sessions.Clear(userID)
	logger.Info(ctx, "service.admin", "item.created",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", id),
		slog.Int64("category_id", draft.CategoryID),
	)
	return Reply{Kind: KindCompletion, Code: CodeItemCreated, ID: id}, nil
}

func (e *Engine) handleNewPrice(ctx context.Context, userID int64, text string) (Reply, error) {
	price, ok := parseAmount(text)
	if !ok || price <= 0 {
		return Reply{Kind: KindError, Code: CodeInvalidPrice}, nil
	}
	itemID := e.sessions.Get(userID).Admin.ItemID
	if err := e.catalog.UpdatePrice(ctx, itemID, price); err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	e.sessions.Clear(userID)
	logger.Info(ctx, "service.admin", "price.updated",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
		slog.Int64("price", price),
	)
	return Reply{Kind: KindCompletion, Code: CodePriceUpdated, ID: itemID}, nil
}

func (e *Engine) handleSettingValue(ctx context.Context, userID int64, text string) (Reply, error) {
	value, ok := parseAmount(text)
	if !ok || value < 0 {
		return Reply{Kind: KindError, Code: CodeInvalidValue}, nil
	}
	key := e.sessions.Get(userID).Admin.SettingKey
	if err := e.settings.Set(ctx, key, value); err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	e.sessions.Clear(userID)
	logger.Info(ctx, "service.admin", "setting.updated",
		slog.Int64("user_id", userID),
		slog.String("setting_key", key),
		slog.Int64("value", value),
	)
	return Reply{Kind: KindCompletion, Code: CodeSettingUpdated}, nil
}

// DeleteCategory removes the category with its items and dependent cart lines.
func (e *Engine) DeleteCategory(ctx context.Context, userID, categoryID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "delete_category"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	if err := e.catalog.DeleteCategory(ctx, categoryID); err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	return Reply{Kind: KindCompletion, Code: CodeCategoryDeleted, ID: categoryID}, nil
}

// DeleteItem removes the item together with dependent cart lines.
func (e *Engine) DeleteItem(ctx context.Context, userID, itemID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "delete_item"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	if err := e.catalog.DeleteItem(ctx, itemID); err != nil {
		return Reply{Kind: KindError, Code: CodeStoreRetry}, err
	}
	return Reply{Kind: KindCompletion, Code: CodeItemDeleted, ID: itemID}, nil
}

// Cancel aborts the active admin dialogue.
func (e *Engine) Cancel(ctx context.Context, userID int64) (Reply, error) {
	if err := e.authorize(ctx, userID, "cancel"); err != nil {
		return Reply{Kind: KindError, Code: CodeDenied}, err
	}
	if !e.sessions.Step(userID).AdminFlow() {
		return Reply{}, nil
	}
	e.sessions.Clear(userID)
	return Reply{Kind: KindCompletion, Code: CodeCancelled}, nil
}

// parseAmount accepts a plain integer amount in whole currency units.
func parseAmount(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
