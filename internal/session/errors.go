package session

import "errors"

// Domain errors for the session package.
var (
	// ErrNotInitialized is returned when no session has been established.
	ErrNotInitialized = errors.New("session: not initialized")
)
