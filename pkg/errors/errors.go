package clearcheck_errors

import "errors"

// Common errors
var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminalState     = errors.New("aggregate is in a terminal state")
	ErrSessionMismatch   = errors.New("intake session mismatch")
	ErrMissingIntake     = errors.New("no completed intake session")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyExists     = errors.New("already exists")
	ErrClockActive       = errors.New("an active clock already exists for this order and kind")
	ErrUnknownEvent      = errors.New("unknown event name")
)
