package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart aborts an active checkout; the session is cleared and no order is produced.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotAuthorized is returned when a non-admin invokes an admin action.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotFound indicates a missing catalog entity.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness violation such as a repeated category name.
	ErrDuplicate = errors.New("already exists")
)

// ValidationError rejects malformed user input. The active flow re-prompts
// the same step; the session never advances on a validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Code implements the error-code hook used by handler summary logging.
func (e *ValidationError) Code() string { return "VALIDATION" }

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a storage failure. The session is left unchanged so the
// same input can be retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code implements the error-code hook used by handler summary logging.
func (e *StoreError) Code() string { return "STORE" }

// WrapStore annotates a storage error with the failed operation; nil passes through.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
