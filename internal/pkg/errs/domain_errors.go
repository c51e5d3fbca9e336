package errs

import "errors"

// Domain-specific sentinel errors shared by the command and query sides
var (
	// Lookup errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")

	// State errors
	ErrConflict          = errors.New("state conflict")
	ErrDuplicateRoom     = errors.New("duplicate room number")
	ErrInvariantViolated = errors.New("room/booking invariant violated")

	// Validation errors
	ErrValidation = errors.New("validation error")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
