// Package session tracks each user's position in a multi-step dialogue
// together with the fields collected so far. Exactly one session exists
// per user; starting a new flow replaces any prior one unconditionally.
package session

import (
	"sync"

	"github.com/streeteda/streeteda/internal/domain"
)

// Step identifies a dialogue step.
type Step string

const (
	StepIdle Step = "idle"

	// Checkout flow.
	StepAwaitingName              Step = "order.awaiting_name"
	StepAwaitingPhone             Step = "order.awaiting_phone"
	StepAwaitingDeliveryMode      Step = "order.awaiting_delivery_mode"
	StepAwaitingAddress           Step = "order.awaiting_address"
	StepAwaitingComment           Step = "order.awaiting_comment"
	StepAwaitingFinalConfirmation Step = "order.awaiting_confirmation"

	// Admin flow.
	StepAwaitingCategoryName    Step = "admin.awaiting_category_name"
	StepAwaitingItemName        Step = "admin.awaiting_item_name"
	StepAwaitingItemDescription Step = "admin.awaiting_item_description"
	StepAwaitingItemPrice       Step = "admin.awaiting_item_price"
	StepAwaitingItemPhoto       Step = "admin.awaiting_item_photo"
	StepAwaitingNewPrice        Step = "admin.awaiting_new_price"
	StepAwaitingSettingValue    Step = "admin.awaiting_setting_value"
)

// OrderFlow reports whether the step belongs to the checkout dialogue.
func (s Step) OrderFlow() bool {
	switch s {
	case StepAwaitingName, StepAwaitingPhone, StepAwaitingDeliveryMode,
		StepAwaitingAddress, StepAwaitingComment, StepAwaitingFinalConfirmation:
		return true
	}
	return false
}

// AdminFlow reports whether the step belongs to the admin dialogue.
func (s Step) AdminFlow() bool {
	switch s {
	case StepAwaitingCategoryName, StepAwaitingItemName, StepAwaitingItemDescription,
		StepAwaitingItemPrice, StepAwaitingItemPhoto, StepAwaitingNewPrice,
		StepAwaitingSettingValue:
		return true
	}
	return false
}

// OrderDraft accumulates checkout fields across turns. Total is cached by
// the checkout computation so the amount shown for confirmation is exactly
// the amount committed.
type OrderDraft struct {
	Name          string
	Phone         string
	Mode          domain.DeliveryMode
	Address       string
	Comment       string
	Total         int64
	TotalComputed bool
}

// AdminDraft accumulates admin flow fields across turns.
type AdminDraft struct {
	CategoryID      int64
	ItemID          int64
	ItemName        string
	ItemDescription string
	ItemPrice       int64
	SettingKey      string
}

// Session is the per-user dialogue record.
type Session struct {
	Step  Step
	Order OrderDraft
	Admin AdminDraft
}

// Store keeps sessions in memory keyed by user id.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the user's session, or an idle one if none exists.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return *sess
	}
	return Session{Step: StepIdle}
}

// Step returns the user's current step.
func (s *Store) Step(userID int64) Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.Step
	}
	return StepIdle
}

// Begin discards any prior session and starts a fresh one at the given step.
func (s *Store) Begin(userID int64, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &Session{Step: step}
}

// SetStep advances the user's session to the given step, creating a
// session when none exists.
func (s *Store) SetStep(userID int64, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	sess.Step = step
}

// UpdateOrder mutates the user's order draft under the store lock and
// optionally advances the step in the same critical section.
func (s *Store) UpdateOrder(userID int64, step Step, fn func(*OrderDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	if fn != nil {
		fn(&sess.Order)
	}
	sess.Step = step
}

// UpdateAdmin mutates the user's admin draft under the store lock and
// optionally advances the step in the same critical section.
func (s *Store) UpdateAdmin(userID int64, step Step, fn func(*AdminDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	if fn != nil {
		fn(&sess.Admin)
	}
	sess.Step = step
}

// Clear removes the user's session entirely.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// InProgress reports whether the user has an active non-idle session.
func (s *Store) InProgress(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return ok && sess.Step != StepIdle
}
