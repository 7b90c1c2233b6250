package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsIdleForUnknownUser(t *testing.T) {
	s := NewStore()
	sess := s.Get(42)
	assert.Equal(t, StepIdle, sess.Step)
	assert.False(t, s.InProgress(42))
}

func TestBeginReplacesPriorSession(t *testing.T) {
	s := NewStore()
	s.Begin(1, StepAwaitingName)
	s.UpdateOrder(1, StepAwaitingPhone, func(d *OrderDraft) {
		d.Name = "Иван"
	})

	// Starting another flow drops collected fields unconditionally.
	s.Begin(1, StepAwaitingCategoryName)
	sess := s.Get(1)
	assert.Equal(t, StepAwaitingCategoryName, sess.Step)
	assert.Empty(t, sess.Order.Name)
}

func TestUpdateOrderAdvancesAndMutatesAtomically(t *testing.T) {
	s := NewStore()
	s.Begin(1, StepAwaitingName)
	s.UpdateOrder(1, StepAwaitingPhone, func(d *OrderDraft) {
		d.Name = "Иван"
	})
	s.UpdateOrder(1, StepAwaitingDeliveryMode, func(d *OrderDraft) {
		d.Phone = "9001234567"
	})

	sess := s.Get(1)
	assert.Equal(t, StepAwaitingDeliveryMode, sess.Step)
	assert.Equal(t, "Иван", sess.Order.Name)
	assert.Equal(t, "9001234567", sess.Order.Phone)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Begin(1, StepAwaitingComment)
	s.Clear(1)
	assert.Equal(t, StepIdle, s.Step(1))
	assert.False(t, s.InProgress(1))
}

func TestFlowClassification(t *testing.T) {
	orderSteps := []Step{
		StepAwaitingName, StepAwaitingPhone, StepAwaitingDeliveryMode,
		StepAwaitingAddress, StepAwaitingComment, StepAwaitingFinalConfirmation,
	}
	adminSteps := []Step{
		StepAwaitingCategoryName, StepAwaitingItemName, StepAwaitingItemDescription,
		StepAwaitingItemPrice, StepAwaitingItemPhoto, StepAwaitingNewPrice,
		StepAwaitingSettingValue,
	}

	for _, step := range orderSteps {
		assert.True(t, step.OrderFlow(), "step %s", step)
		assert.False(t, step.AdminFlow(), "step %s", step)
	}
	for _, step := range adminSteps {
		assert.True(t, step.AdminFlow(), "step %s", step)
		assert.False(t, step.OrderFlow(), "step %s", step)
	}
	assert.False(t, StepIdle.OrderFlow())
	assert.False(t, StepIdle.AdminFlow())
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	s := NewStore()
	s.Begin(1, StepAwaitingName)
	s.Begin(2, StepAwaitingItemPrice)

	assert.Equal(t, StepAwaitingName, s.Step(1))
	assert.Equal(t, StepAwaitingItemPrice, s.Step(2))

	s.Clear(1)
	assert.Equal(t, StepIdle, s.Step(1))
	assert.Equal(t, StepAwaitingItemPrice, s.Step(2))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		userID := int64(i % 5)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Begin(userID, StepAwaitingName)
			s.UpdateOrder(userID, StepAwaitingPhone, func(d *OrderDraft) {
				d.Name = "x"
			})
			_ = s.Get(userID)
			_ = s.InProgress(userID)
		}()
	}
	wg.Wait()

	for userID := int64(0); userID < 5; userID++ {
		assert.Equal(t, StepAwaitingPhone, s.Step(userID))
	}
}
