package room

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyNumber     = errors.New("room number cannot be empty")
	ErrNumberTooLong   = errors.New("room number is too long (max 20 characters)")
	ErrInvalidCategory = errors.New("invalid room category")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrPriceOutOfRange = errors.New("price out of range")
	ErrEmptyGuestName  = errors.New("guest name cannot be empty")
	ErrGuestNameLength = errors.New("guest name is too long (max 100 characters)")
)

// ConflictError reports a transition whose precondition did not hold.
// Current is the state the room was observed in; nothing was mutated.
type ConflictError struct {
	Op      string
	Current State
}

func (e *ConflictError) Error() string {
	if e.Op == "book" {
		return fmt.Sprintf("room is no longer available (current state: %s)", e.Current)
	}
	return fmt.Sprintf("cannot %s room in state %s", e.Op, e.Current)
}

func conflict(op string, current State) error {
	return &ConflictError{Op: op, Current: current}
}

// AsConflict unwraps err to a ConflictError.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
