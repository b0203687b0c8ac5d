package pos

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity referenced by an operation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotReady blocks serving a table while any of its order items is still in preparation.
	ErrNotReady = errors.New("order items are not all ready")
	// ErrInvalidState is returned when a table transition is requested from the wrong status.
	ErrInvalidState = errors.New("invalid table state for this action")
	// ErrAlreadyClosed is returned when closing an order that is already closed.
	ErrAlreadyClosed = errors.New("order already closed")
	// ErrRegisterClosed is returned when a sale is recorded against a closed register.
	// A lost sale is a financial integrity issue, so callers must surface this loudly.
	ErrRegisterClosed = errors.New("cash register is closed")
	// ErrRegisterAlreadyOpen is returned in strict mode when opening a second register.
	ErrRegisterAlreadyOpen = errors.New("a cash register is already open")
)

// ValidationError rejects an operation before any persistence call happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransitionError rejects an illegal status change. State is left untouched.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition %s -> %s", e.Entity, e.From, e.To)
}

func transitionErr(entity, from, to string) error {
	return &TransitionError{Entity: entity, From: from, To: to}
}

// IsTransition reports whether err is (or wraps) a TransitionError.
func IsTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
