package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/streeteda/streeteda/internal/domain"
)

// MemoryStore is an in-memory implementation of every store interface,
// intended for tests and development.
type MemoryStore struct {
	mu         sync.Mutex
	nextCatID  int64
	nextItemID int64
	nextOrdID  int64

	categories map[int64]domain.Category
	items      map[int64]domain.MenuItem
	carts      map[int64]map[int64]int64 // userID -> itemID -> quantity
	settings   map[string]int64

	orders     map[int64]domain.Order
	orderLines map[int64][]domain.OrderLine
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextCatID:  1,
		nextItemID: 1,
		nextOrdID:  1,
		categories: make(map[int64]domain.Category),
		items:      make(map[int64]domain.MenuItem),
		carts:      make(map[int64]map[int64]int64),
		settings:   make(map[string]int64),
		orders:     make(map[int64]domain.Order),
		orderLines: make(map[int64][]domain.OrderLine),
	}
}

// Stores exposes the memory store through the interface bundle.
func (m *MemoryStore) Stores() Stores {
	return Stores{Catalog: m, Cart: m, Settings: m, Orders: m}
}

func (m *MemoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) CreateCategory(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == name {
			return 0, domain.ErrDuplicate
		}
	}
	id := m.nextCatID
	m.nextCatID++
	m.categories[id] = domain.Category{ID: id, Name: name}
	return id, nil
}

func (m *MemoryStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for itemID, item := range m.items {
		if item.CategoryID != id {
			continue
		}
		for _, cart := range m.carts {
			delete(cart, itemID)
		}
		delete(m.items, itemID)
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) ListItems(_ context.Context, categoryID int64) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MenuItem
	for _, it := range m.items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetItem(_ context.Context, id int64) (domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	return it, nil
}

func (m *MemoryStore) CreateItem(_ context.Context, item domain.MenuItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextItemID
	m.nextItemID++
	item.ID = id
	m.items[id] = item
	return id, nil
}

func (m *MemoryStore) UpdatePrice(_ context.Context, id, price int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Price = price
	m.items[id] = it
	return nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, cart := range m.carts {
		delete(cart, id)
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) Lines(_ context.Context, userID int64) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CartLine
	for itemID, qty := range m.carts[userID] {
		item, ok := m.items[itemID]
		if !ok {
			continue
		}
		out = append(out, domain.CartLine{
			ItemID:   itemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Upsert(_ context.Context, userID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		cart = make(map[int64]int64)
		m.carts[userID] = cart
	}
	cart[itemID]++
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, userID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts[userID], itemID)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Settings{
		DeliveryFee:           m.settings[domain.SettingDeliveryFee],
		FreeDeliveryThreshold: m.settings[domain.SettingFreeDeliveryThreshold],
	}, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

func (m *MemoryStore) Create(_ context.Context, snap domain.OrderSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextOrdID
	m.nextOrdID++
	m.orders[id] = domain.Order{
		ID:           id,
		UserID:       snap.UserID,
		UserName:     snap.UserName,
		PhoneNumber:  snap.PhoneNumber,
		DeliveryType: snap.DeliveryType,
		Address:      snap.Address,
		Comment:      snap.Comment,
		TotalAmount:  snap.TotalAmount,
		Status:       domain.OrderStatusNew,
	}
	lines := make([]domain.OrderLine, len(snap.Lines))
	copy(lines, snap.Lines)
	for i := range lines {
		lines[i].OrderID = id
	}
	m.orderLines[id] = lines
	delete(m.carts, snap.UserID)
	return id, nil
}

// Order returns a committed order by id (test helper).
func (m *MemoryStore) Order(id int64) (domain.Order, []domain.OrderLine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, nil, false
	}
	return o, m.orderLines[id], true
}

// OrderCount reports how many orders have been committed (test helper).
func (m *MemoryStore) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}
