package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streeteda/streeteda/internal/order"
)

type sendRecorder struct {
	mu    sync.Mutex
	sent  map[int64]string
	fails map[int64]bool
}

func newSendRecorder(failing ...int64) *sendRecorder {
	r := &sendRecorder{
		sent:  make(map[int64]string),
		fails: make(map[int64]bool),
	}
	for _, id := range failing {
		r.fails[id] = true
	}
	return r
}

func (r *sendRecorder) send(_ context.Context, recipientID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails[recipientID] {
		return errors.New("forbidden: bot was blocked by the user")
	}
	r.sent[recipientID] = text
	return nil
}

func (r *sendRecorder) delivered() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.sent))
	for id := range r.sent {
		out = append(out, id)
	}
	return out
}

func renderStub(ord order.Committed) string {
	return fmt.Sprintf("order %d", ord.OrderID)
}

func TestFanOutReachesEveryRecipient(t *testing.T) {
	rec := newSendRecorder()
	n := NewNotifier(Options{
		Recipients: []int64{10, 20, 30},
		Send:       rec.send,
		Render:     renderStub,
	})

	n.fanOut(context.Background(), order.Committed{OrderID: 7})

	require.ElementsMatch(t, []int64{10, 20, 30}, rec.delivered())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "order 7", rec.sent[10])
}

func TestOneFailureDoesNotBlockOthers(t *testing.T) {
	rec := newSendRecorder(20)
	n := NewNotifier(Options{
		Recipients: []int64{10, 20, 30},
		Send:       rec.send,
		Render:     renderStub,
	})

	n.fanOut(context.Background(), order.Committed{OrderID: 7})

	assert.ElementsMatch(t, []int64{10, 30}, rec.delivered())
}

func TestNoRecipientsIsANoOp(t *testing.T) {
	rec := newSendRecorder()
	n := NewNotifier(Options{Send: rec.send, Render: renderStub})

	n.fanOut(context.Background(), order.Committed{OrderID: 7})

	assert.Empty(t, rec.delivered())
}
