package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

const (
	adminID    = int64(100)
	strangerID = int64(200)
)

func adminOnly(userID int64) bool { return userID == adminID }

type fixture struct {
	store    *repository.MemoryStore
	sessions *session.Store
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	sessions := session.NewStore()
	return &fixture{
		store:    store,
		sessions: sessions,
		engine:   NewEngine(sessions, store, store, adminOnly),
	}
}

func TestEveryOperationDeniedForNonAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ops := map[string]func() (Reply, error){
		"add category": func() (Reply, error) { return f.engine.BeginAddCategory(ctx, strangerID) },
		"add item":     func() (Reply, error) { return f.engine.BeginAddItem(ctx, strangerID, 1) },
		"reprice":      func() (Reply, error) { return f.engine.BeginReprice(ctx, strangerID, 1) },
		"set setting": func() (Reply, error) {
			return f.engine.BeginSetSetting(ctx, strangerID, domain.SettingDeliveryFee)
		},
		"handle":          func() (Reply, error) { return f.engine.Handle(ctx, strangerID, Input{Text: "x"}) },
		"delete category": func() (Reply, error) { return f.engine.DeleteCategory(ctx, strangerID, 1) },
		"delete item":     func() (Reply, error) { return f.engine.DeleteItem(ctx, strangerID, 1) },
		"cancel":          func() (Reply, error) { return f.engine.Cancel(ctx, strangerID) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			reply, err := op()
			require.ErrorIs(t, err, domain.ErrNotAuthorized)
			assert.Equal(t, CodeDenied, reply.Code)
			assert.Equal(t, session.StepIdle, f.sessions.Step(strangerID))
		})
	}
}

func TestCategoryCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.engine.BeginAddCategory(ctx, adminID)
	require.NoError(t, err)
	require.Equal(t, CodeAskCategoryName, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "  Напитки  "})
	require.NoError(t, err)
	assert.Equal(t, KindCompletion, reply.Kind)
	assert.Equal(t, CodeCategoryCreated, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(adminID))

	cats, err := f.store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Напитки", cats[0].Name)
}

func TestDuplicateCategoryKeepsStepForRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.CreateCategory(ctx, "Напитки")
	require.NoError(t, err)

	_, err = f.engine.BeginAddCategory(ctx, adminID)
	require.NoError(t, err)

	reply, err := f.engine.Handle(ctx, adminID, Input{Text: "Напитки"})
	require.NoError(t, err)
	assert.Equal(t, CodeDuplicateCategory, reply.Code)
	assert.Equal(t, session.StepAwaitingCategoryName, f.sessions.Step(adminID))

	cats, err := f.store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	// Corrected name completes the chain.
	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "Десерты"})
	require.NoError(t, err)
	assert.Equal(t, CodeCategoryCreated, reply.Code)
}

func TestItemCreationChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)

	reply, err := f.engine.BeginAddItem(ctx, adminID, catID)
	require.NoError(t, err)
	require.Equal(t, CodeAskItemName, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "Большая (600 грамм)"})
	require.NoError(t, err)
	require.Equal(t, CodeAskItemDescription, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "Сытная"})
	require.NoError(t, err)
	require.Equal(t, CodeAskItemPrice, reply.Code)

	// Bad prices re-prompt without advancing.
	for _, bad := range []string{"abc", "", "0", "-5", "12.50"} {
		reply, err = f.engine.Handle(ctx, adminID, Input{Text: bad})
		require.NoError(t, err)
		assert.Equal(t, CodeInvalidPrice, reply.Code, "input %q", bad)
		assert.Equal(t, session.StepAwaitingItemPrice, f.sessions.Step(adminID))
	}

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "280"})
	require.NoError(t, err)
	require.Equal(t, CodeAskItemPhoto, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "нет"})
	require.NoError(t, err)
	assert.Equal(t, CodeItemCreated, reply.Code)

	items, err := f.store.ListItems(ctx, catID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Большая (600 грамм)", items[0].Name)
	assert.Equal(t, "Сытная", items[0].Description)
	assert.Equal(t, int64(280), items[0].Price)
	assert.Nil(t, items[0].PhotoID)
}

func TestItemCreationWithPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)

	_, err = f.engine.BeginAddItem(ctx, adminID, catID)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, adminID, Input{Text: "Стандартная"})
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, adminID, Input{Text: ""})
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, adminID, Input{Text: "230"})
	require.NoError(t, err)

	reply, err := f.engine.Handle(ctx, adminID, Input{PhotoID: "AgAC-file-id"})
	require.NoError(t, err)
	require.Equal(t, CodeItemCreated, reply.Code)

	items, err := f.store.ListItems(ctx, catID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PhotoID)
	assert.Equal(t, "AgAC-file-id", *items[0].PhotoID)
}

func TestReprice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)
	itemID, err := f.store.CreateItem(ctx, domain.MenuItem{Name: "Стандартная", Price: 230, CategoryID: catID})
	require.NoError(t, err)

	reply, err := f.engine.BeginReprice(ctx, adminID, itemID)
	require.NoError(t, err)
	require.Equal(t, CodeAskNewPrice, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "250"})
	require.NoError(t, err)
	assert.Equal(t, CodePriceUpdated, reply.Code)

	item, err := f.store.GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), item.Price)
}

func TestRepriceUnknownItemRejectedUpfront(t *testing.T) {
	f := newFixture(t)
	reply, err := f.engine.BeginReprice(context.Background(), adminID, 404)
	require.Error(t, err)
	assert.Equal(t, CodeStoreRetry, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(adminID))
}

func TestSettingUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.engine.BeginSetSetting(ctx, adminID, "free_shipping")
	require.NoError(t, err)
	assert.Equal(t, CodeUnknownSetting, reply.Code)

	reply, err = f.engine.BeginSetSetting(ctx, adminID, domain.SettingDeliveryFee)
	require.NoError(t, err)
	require.Equal(t, CodeAskSettingValue, reply.Code)

	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "-1"})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidValue, reply.Code)

	// Zero disables the fee and is allowed.
	reply, err = f.engine.Handle(ctx, adminID, Input{Text: "0"})
	require.NoError(t, err)
	assert.Equal(t, CodeSettingUpdated, reply.Code)

	cfg, err := f.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.DeliveryFee)
}

func TestDeleteCategoryCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)
	itemID, err := f.store.CreateItem(ctx, domain.MenuItem{Name: "Стандартная", Price: 230, CategoryID: catID})
	require.NoError(t, err)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	reply, err := f.engine.DeleteCategory(ctx, adminID, catID)
	require.NoError(t, err)
	assert.Equal(t, CodeCategoryDeleted, reply.Code)

	cats, err := f.store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, err = f.store.GetItem(ctx, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lines, err := f.store.Lines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeleteItemCascadesToCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)
	itemID, err := f.store.CreateItem(ctx, domain.MenuItem{Name: "Стандартная", Price: 230, CategoryID: catID})
	require.NoError(t, err)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	reply, err := f.engine.DeleteItem(ctx, adminID, itemID)
	require.NoError(t, err)
	assert.Equal(t, CodeItemDeleted, reply.Code)

	lines, err := f.store.Lines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCancelClearsDialogue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.BeginAddCategory(ctx, adminID)
	require.NoError(t, err)
	require.True(t, f.engine.InProgress(adminID))

	reply, err := f.engine.Cancel(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, CodeCancelled, reply.Code)
	assert.False(t, f.engine.InProgress(adminID))
}
