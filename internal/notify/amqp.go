package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/order"
)

const ordersExchange = "orders_fanout"

// OrderCreatedEvent is the broker payload for a committed order.
type OrderCreatedEvent struct {
	OrderID      int64            `json:"order_id"`
	UserID       int64            `json:"user_id"`
	UserName     string           `json:"user_name"`
	Phone        string           `json:"phone"`
	DeliveryType string           `json:"delivery_type"`
	Address      string           `json:"address,omitempty"`
	Comment      string           `json:"comment,omitempty"`
	Total        int64            `json:"total"`
	Lines        []OrderEventLine `json:"lines"`
	CreatedAt    time.Time        `json:"created_at"`
}

// OrderEventLine mirrors one frozen order line.
type OrderEventLine struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// Publisher pushes committed orders to a durable fanout exchange so
// external consumers (kitchen displays, analytics) can subscribe.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ordersExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare: %w", err)
	}
	logger.NOTIFY.Info("amqp",
		slog.String("event", "connected"),
		slog.String("exchange", ordersExchange),
	)
	return &Publisher{conn: conn, ch: ch}, nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishOrderCreated emits one persistent order.created message.
func (p *Publisher) PublishOrderCreated(ctx context.Context, ord order.Committed) error {
	evt := OrderCreatedEvent{
		OrderID:      ord.OrderID,
		UserID:       ord.UserID,
		UserName:     ord.Review.Name,
		Phone:        ord.Review.Phone,
		DeliveryType: string(ord.Review.Mode),
		Address:      ord.Review.Address,
		Comment:      ord.Review.Comment,
		Total:        ord.Review.Total,
		CreatedAt:    time.Now().UTC(),
	}
	for _, l := range ord.Review.Lines {
		evt.Lines = append(evt.Lines, OrderEventLine{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return p.ch.PublishWithContext(ctx, ordersExchange, "order.created", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.CreatedAt,
		ContentType:  "application/json",
		Body:         body,
	})
}
