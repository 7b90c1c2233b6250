// Package notify delivers committed orders to operator recipients and an
// optional message broker. Failures are logged only; they never surface
// to the customer and never affect order durability.
package notify

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/order"
)

const sendTimeout = 10 * time.Second

// SendFunc delivers one rendered summary to one recipient.
type SendFunc func(ctx context.Context, recipientID int64, text string) error

// RenderFunc turns a committed order into the operator-facing summary.
type RenderFunc func(ord order.Committed) string

// Options configures the notifier.
type Options struct {
	Recipients []int64
	Send       SendFunc
	Render     RenderFunc
	// Publisher is optional; when set every committed order is also
	// published to the broker.
	Publisher *Publisher
}

// Notifier fans a committed order out to every recipient independently.
type Notifier struct {
	opts Options
}

// NewNotifier constructs a Notifier.
func NewNotifier(opts Options) *Notifier {
	return &Notifier{opts: opts}
}

// OrderCommitted implements order.Sink. The fan-out runs detached from
// the caller so a slow recipient never delays the customer reply, and
// detached from the request's cancellation so a finished handler does
// not cut notifications short.
func (n *Notifier) OrderCommitted(ctx context.Context, ord order.Committed) {
	go n.fanOut(context.WithoutCancel(ctx), ord)
}

func (n *Notifier) fanOut(ctx context.Context, ord order.Committed) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	text := ""
	if n.opts.Render != nil {
		text = n.opts.Render(ord)
	}

	var g errgroup.Group
	for _, recipient := range n.opts.Recipients {
		recipient := recipient
		g.Go(func() error {
			if n.opts.Send == nil {
				return nil
			}
			if err := n.opts.Send(ctx, recipient, text); err != nil {
				// One recipient's failure must not block the others.
				logger.Error(ctx, "notify", "notify.fail",
					slog.Int64("order_id", ord.OrderID),
					slog.Int64("recipient_id", recipient),
					slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
				)
				return nil
			}
			logger.Debug(ctx, "notify", "notify.sent",
				slog.Int64("order_id", ord.OrderID),
				slog.Int64("recipient_id", recipient),
			)
			return nil
		})
	}
	_ = g.Wait()

	if n.opts.Publisher != nil {
		if err := n.opts.Publisher.PublishOrderCreated(ctx, ord); err != nil {
			logger.Error(ctx, "notify", "publish.fail",
				slog.Int64("order_id", ord.OrderID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
}
