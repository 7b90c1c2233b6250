package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

type recordingSink struct {
	committed []Committed
}

func (r *recordingSink) OrderCommitted(_ context.Context, ord Committed) {
	r.committed = append(r.committed, ord)
}

type failingOrders struct{}

func (failingOrders) Create(context.Context, domain.OrderSnapshot) (int64, error) {
	return 0, errors.New("tx failed")
}

type fixture struct {
	store    *repository.MemoryStore
	sessions *session.Store
	sink     *recordingSink
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	sessions := session.NewStore()
	sink := &recordingSink{}
	eng := NewEngine(sessions, store, store, store, sink)
	return &fixture{store: store, sessions: sessions, sink: sink, engine: eng}
}

func (f *fixture) seedItem(t *testing.T, name string, price int64) int64 {
	t.Helper()
	ctx := context.Background()
	catID, err := f.store.CreateCategory(ctx, "Меню")
	require.NoError(t, err)
	id, err := f.store.CreateItem(ctx, domain.MenuItem{Name: name, Price: price, CategoryID: catID})
	require.NoError(t, err)
	return id
}

func (f *fixture) setSettings(t *testing.T, fee, threshold int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, domain.SettingDeliveryFee, fee))
	require.NoError(t, f.store.Set(ctx, domain.SettingFreeDeliveryThreshold, threshold))
}

// walk drives the dialogue through name and phone.
func (f *fixture) walkToMode(t *testing.T, userID int64) {
	t.Helper()
	ctx := context.Background()
	reply, err := f.engine.Begin(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, CodeAskName, reply.Code)

	reply, err = f.engine.Handle(ctx, userID, Input{Kind: InputText, Text: "Иван"})
	require.NoError(t, err)
	require.Equal(t, CodeAskPhone, reply.Code)

	reply, err = f.engine.Handle(ctx, userID, Input{Kind: InputText, Text: "+7 (900) 123-45-67"})
	require.NoError(t, err)
	require.Equal(t, CodeAskMode, reply.Code)
}

func TestBeginRequiresNonEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.engine.Begin(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindError, reply.Kind)
	assert.Equal(t, CodeCartEmpty, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(1))
}

func TestPhoneValidation(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"formatted number", "+7 (900) 123-45-67", true},
		{"ten digits", "9001234567", true},
		{"fifteen digits", "123456789012345", true},
		{"nine digits", "900123456", false},
		{"sixteen digits", "1234567890123456", false},
		{"letters only", "call me maybe", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			itemID := f.seedItem(t, "Шаурма", 230)
			require.NoError(t, f.store.Upsert(ctx, 1, itemID))

			_, err := f.engine.Begin(ctx, 1)
			require.NoError(t, err)
			_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "Иван"})
			require.NoError(t, err)

			reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: tc.input})
			require.NoError(t, err)
			if tc.ok {
				assert.Equal(t, CodeAskMode, reply.Code)
				assert.Equal(t, session.StepAwaitingDeliveryMode, f.sessions.Step(1))
			} else {
				assert.Equal(t, CodeInvalidPhone, reply.Code)
				assert.Equal(t, session.StepAwaitingPhone, f.sessions.Step(1))
			}
		})
	}
}

func TestContactPayloadAcceptedVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	_, err := f.engine.Begin(ctx, 1)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "Иван"})
	require.NoError(t, err)

	// Shared contacts bypass digit-count validation.
	reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputContact, Phone: "+79"})
	require.NoError(t, err)
	assert.Equal(t, CodeAskMode, reply.Code)
	assert.Equal(t, "+79", f.sessions.Get(1).Order.Phone)
}

func TestAddressValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)

	reply, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeDelivery)
	require.NoError(t, err)
	require.Equal(t, CodeAskAddress, reply.Code)

	reply, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "дом 1"})
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidAddress, reply.Code)
	assert.Equal(t, session.StepAwaitingAddress, f.sessions.Step(1))

	reply, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "ул. Ленина, д. 10, кв. 5"})
	require.NoError(t, err)
	assert.Equal(t, CodeAskComment, reply.Code)
}

func TestInvalidModeDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)

	reply, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryMode("drone"))
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidMode, reply.Code)
	assert.Equal(t, session.StepAwaitingDeliveryMode, f.sessions.Step(1))
}

func TestTakeawayTotalAndCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setSettings(t, 400, 1000)
	itemID := f.seedItem(t, "Стандартная (400 грамм)", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)

	reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)
	require.Equal(t, CodeConfirm, reply.Code)
	require.NotNil(t, reply.Review)
	assert.Equal(t, int64(460), reply.Review.Subtotal)
	assert.Equal(t, int64(0), reply.Review.Fee)
	assert.Equal(t, int64(460), reply.Review.Total)
	assert.Empty(t, reply.Review.Comment)

	reply, err = f.engine.Confirm(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, KindCompletion, reply.Kind)
	assert.Equal(t, CodeOrderPlaced, reply.Code)

	ord, lines, ok := f.store.Order(reply.OrderID)
	require.True(t, ok)
	assert.Equal(t, int64(460), ord.TotalAmount)
	assert.Equal(t, domain.DeliveryModeTakeaway, ord.DeliveryType)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, int64(230), lines[0].PricePerItem)

	cartLines, err := f.store.Lines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cartLines)
	assert.Equal(t, session.StepIdle, f.sessions.Step(1))
	require.Len(t, f.sink.committed, 1)
	assert.Equal(t, reply.OrderID, f.sink.committed[0].OrderID)
}

func TestDeliveryFeeapplication(t *testing.T) {
	cases := []struct {
		name     string
		price    int64
		qty      int
		wantFee  int64
		wantTotl int64
	}{
		{"below threshold pays fee", 800, 1, 400, 1200},
		{"at threshold fee waived", 1200, 1, 0, 1200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.setSettings(t, 400, 1000)
			itemID := f.seedItem(t, "Сет", tc.price)
			for i := 0; i < tc.qty; i++ {
				require.NoError(t, f.store.Upsert(ctx, 1, itemID))
			}

			f.walkToMode(t, 1)
			_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeDelivery)
			require.NoError(t, err)
			_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "ул. Ленина, д. 10"})
			require.NoError(t, err)

			reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "-"})
			require.NoError(t, err)
			require.NotNil(t, reply.Review)
			assert.Equal(t, tc.wantFee, reply.Review.Fee)
			assert.Equal(t, tc.wantTotl, reply.Review.Total)
		})
	}
}

func TestCachedTotalCommittedVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setSettings(t, 400, 1000)
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)
	reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)
	require.Equal(t, int64(230), reply.Review.Total)

	// A price change between confirmation prompt and the confirm trigger
	// must not alter the committed total.
	require.NoError(t, f.store.UpdatePrice(ctx, itemID, 999))

	reply, err = f.engine.Confirm(ctx, 1)
	require.NoError(t, err)
	ord, _, ok := f.store.Order(reply.OrderID)
	require.True(t, ok)
	assert.Equal(t, int64(230), ord.TotalAmount)
}

func TestCommentSentinels(t *testing.T) {
	for _, sentinel := range []string{"нет", "НЕТ", "No", "-"} {
		t.Run(sentinel, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			itemID := f.seedItem(t, "Шаурма", 230)
			require.NoError(t, f.store.Upsert(ctx, 1, itemID))
			f.walkToMode(t, 1)
			_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
			require.NoError(t, err)

			reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: sentinel})
			require.NoError(t, err)
			assert.Empty(t, reply.Review.Comment)
		})
	}
}

func TestCancelLeavesCartUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)

	reply, err := f.engine.Cancel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, CodeCancelled, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(1))

	lines, err := f.store.Lines(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Zero(t, f.store.OrderCount())
}

func TestEmptyCartAtCheckoutComputationAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)

	// Cart emptied during the dialogue window.
	require.NoError(t, f.store.Clear(ctx, 1))

	reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)
	assert.Equal(t, CodeCartEmpty, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(1))
	assert.Zero(t, f.store.OrderCount())
}

func TestEmptyCartAtConfirmAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)

	require.NoError(t, f.store.Clear(ctx, 1))

	reply, err := f.engine.Confirm(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, CodeCartEmpty, reply.Code)
	assert.Equal(t, session.StepIdle, f.sessions.Step(1))
	assert.Zero(t, f.store.OrderCount())
	assert.Empty(t, f.sink.committed)
}

func TestStoreFailureLeavesSessionForRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))

	eng := NewEngine(f.sessions, f.store, f.store, failingOrders{}, f.sink)
	f.engine = eng
	f.walkToMode(t, 1)
	_, err := eng.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)
	_, err = eng.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)

	reply, err := eng.Confirm(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, CodeStoreRetry, reply.Code)
	// Session intact, so the same confirm can succeed later.
	assert.Equal(t, session.StepAwaitingFinalConfirmation, f.sessions.Step(1))
	assert.Empty(t, f.sink.committed)
}

func TestTextAtConfirmationIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := f.seedItem(t, "Шаурма", 230)
	require.NoError(t, f.store.Upsert(ctx, 1, itemID))
	f.walkToMode(t, 1)
	_, err := f.engine.ChooseMode(ctx, 1, domain.DeliveryModeTakeaway)
	require.NoError(t, err)
	_, err = f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "нет"})
	require.NoError(t, err)

	// Free text while the confirmation is on screen produces no reply —
	// in particular no half-empty order summary without lines.
	reply, err := f.engine.Handle(ctx, 1, Input{Kind: InputText, Text: "ау?"})
	require.NoError(t, err)
	assert.Equal(t, KindNone, reply.Kind)
	assert.Nil(t, reply.Review)
	assert.Equal(t, session.StepAwaitingFinalConfirmation, f.sessions.Step(1))

	// The pending confirm still commits the computed total.
	reply, err = f.engine.Confirm(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, CodeOrderPlaced, reply.Code)
	ord, _, ok := f.store.Order(reply.OrderID)
	require.True(t, ok)
	assert.Equal(t, int64(230), ord.TotalAmount)
}

func TestIdleInputIgnored(t *testing.T) {
	f := newFixture(t)
	reply, err := f.engine.Handle(context.Background(), 1, Input{Kind: InputText, Text: "привет"})
	require.NoError(t, err)
	assert.Equal(t, KindNone, reply.Kind)
}
