package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/streeteda/streeteda/internal/admin"
	"github.com/streeteda/streeteda/internal/cart"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/order"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

// stubContext implements just enough of tele.Context to drive handlers.
type stubContext struct {
	tele.Context
	sender *tele.User
	kv     map[string]interface{}
	texts  []string
}

func newStubContext(userID int64) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		kv:     make(map[string]interface{}),
	}
}

func (s *stubContext) Sender() *tele.User { return s.sender }

func (s *stubContext) Chat() *tele.Chat { return nil }

func (s *stubContext) Update() tele.Update { return tele.Update{} }

func (s *stubContext) Get(key string) interface{} { return s.kv[key] }

func (s *stubContext) Set(key string, val interface{}) { s.kv[key] = val }

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	if t, ok := what.(string); ok {
		s.texts = append(s.texts, t)
	}
	return nil
}

func (s *stubContext) EditOrSend(what interface{}, _ ...interface{}) error {
	return s.Send(what)
}

func newTestHandlers(t *testing.T) (*Handlers, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	sessions := session.NewStore()
	isAdmin := func(int64) bool { return false }
	orders := order.NewEngine(sessions, store, store, store, nil)
	admins := admin.NewEngine(sessions, store, store, isAdmin)
	carts := cart.NewService(store, store)
	return NewHandlers(isAdmin, store.Stores(), carts, sessions, orders, admins), store
}

func TestClearCartRepliesCleared(t *testing.T) {
	h, store := newTestHandlers(t)
	ctx := context.Background()
	catID, err := store.CreateCategory(ctx, "Шаурма")
	require.NoError(t, err)
	itemID, err := store.CreateItem(ctx, domain.MenuItem{Name: "Стандартная", Price: 230, CategoryID: catID})
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, 1, itemID))

	c := newStubContext(1)
	require.NoError(t, h.cbClearCart(c))

	lines, err := store.Lines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
	require.Len(t, c.texts, 1)
	assert.Equal(t, textCartCleared, c.texts[0])
}
