package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/repository"
)

func seedItem(t *testing.T, store *repository.MemoryStore, name string, price int64) int64 {
	t.Helper()
	ctx := context.Background()
	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	var catID int64
	if len(cats) == 0 {
		catID, err = store.CreateCategory(ctx, "Меню")
		require.NoError(t, err)
	} else {
		catID = cats[0].ID
	}
	id, err := store.CreateItem(ctx, domain.MenuItem{Name: name, Price: price, CategoryID: catID})
	require.NoError(t, err)
	return id
}

func TestAddIncrementsQuantity(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)
	ctx := context.Background()
	itemID := seedItem(t, store, "Шаурма", 230)

	item, err := svc.Add(ctx, 1, itemID)
	require.NoError(t, err)
	assert.Equal(t, "Шаурма", item.Name)

	_, err = svc.Add(ctx, 1, itemID)
	require.NoError(t, err)

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2), view.Lines[0].Quantity)
	assert.Equal(t, int64(460), view.Subtotal)
}

func TestAddUnknownItemRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)

	_, err := svc.Add(context.Background(), 1, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestConcurrentAddsBothLand(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)
	ctx := context.Background()
	itemID := seedItem(t, store, "Шаурма", 230)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, 1, itemID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2), view.Lines[0].Quantity)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)
	ctx := context.Background()
	itemID := seedItem(t, store, "Шаурма", 230)
	_, err := svc.Add(ctx, 1, itemID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, 1, itemID))
	require.NoError(t, svc.Remove(ctx, 1, itemID))

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
}

func TestClear(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)
	ctx := context.Background()
	first := seedItem(t, store, "Шаурма", 230)
	second := seedItem(t, store, "Люля", 180)
	_, err := svc.Add(ctx, 1, first)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, second)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Zero(t, view.Subtotal)
}

func TestSubtotalAcrossLines(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewService(store, store)
	ctx := context.Background()
	shawarma := seedItem(t, store, "Шаурма", 230)
	kebab := seedItem(t, store, "Люля", 180)
	for i := 0; i < 2; i++ {
		_, err := svc.Add(ctx, 1, shawarma)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, 1, kebab)
	require.NoError(t, err)

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(640), view.Subtotal)
}
