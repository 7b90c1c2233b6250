package domain

import "time"

// DeliveryMode distinguishes how a finished order reaches the customer.
type DeliveryMode string

const (
	DeliveryModeTakeaway DeliveryMode = "takeaway"
	DeliveryModeDelivery DeliveryMode = "delivery"
)

// Valid reports whether the mode is one of the supported values.
func (m DeliveryMode) Valid() bool {
	return m == DeliveryModeTakeaway || m == DeliveryModeDelivery
}

// Settings keys. Both values are non-negative amounts in whole currency units.
const (
	SettingDeliveryFee           = "delivery_fee"
	SettingFreeDeliveryThreshold = "free_delivery_threshold"
)

// OrderStatusNew is assigned to every freshly committed order.
const OrderStatusNew = "new"

// Category groups menu items.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// MenuItem is a purchasable catalog entry.
type MenuItem struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       int64   `db:"price"`
	PhotoID     *string `db:"photo_id"`
	CategoryID  int64   `db:"category_id"`
}

// CartLine is one (user, item) row joined with the item's current catalog data.
type CartLine struct {
	ItemID   int64  `db:"item_id"`
	Name     string `db:"name"`
	Price    int64  `db:"price"`
	Quantity int64  `db:"quantity"`
}

// Total returns price multiplied by quantity.
func (l CartLine) Total() int64 {
	return l.Price * l.Quantity
}

// Subtotal sums line totals over a cart.
func Subtotal(lines []CartLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Total()
	}
	return sum
}

// Settings holds the two pricing knobs read on every checkout computation.
type Settings struct {
	DeliveryFee           int64
	FreeDeliveryThreshold int64
}

// Order is an immutable snapshot created exactly once per completed checkout.
type Order struct {
	ID           int64        `db:"id"`
	UserID       int64        `db:"user_id"`
	UserName     string       `db:"user_name"`
	PhoneNumber  string       `db:"phone_number"`
	DeliveryType DeliveryMode `db:"delivery_type"`
	Address      string       `db:"address"`
	Comment      string       `db:"comment"`
	TotalAmount  int64        `db:"total_amount"`
	Status       string       `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
}

// OrderLine freezes one cart line's name, price and quantity at commit time.
type OrderLine struct {
	OrderID      int64  `db:"order_id"`
	ItemName     string `db:"item_name"`
	Quantity     int64  `db:"quantity"`
	PricePerItem int64  `db:"price_per_item"`
}

// OrderSnapshot carries everything createOrder needs to commit in one transaction.
type OrderSnapshot struct {
	UserID       int64
	UserName     string
	PhoneNumber  string
	DeliveryType DeliveryMode
	Address      string
	Comment      string
	TotalAmount  int64
	Lines        []OrderLine
}
