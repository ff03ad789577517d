package session

import "errors"

// Sentinel kinds for session errors. Callers match with errors.Is.
var (
	// ErrInvalidState marks an operation invoked outside its valid
	// lifecycle state: advancing before start, completing twice,
	// completing with an unresolved event.
	ErrInvalidState = errors.New("invalid session state")

	// ErrInvalidEvent marks a resolve or discard against an event that is
	// not pending, already resolved, or an out-of-range option choice.
	ErrInvalidEvent = errors.New("invalid event")
)
