package usecase

import "github.com/m-mizutani/goerr/v2"

// ErrSessionNotFound is returned for session IDs that were never started or have ended.
var ErrSessionNotFound = goerr.New("session not found")

// Context keys for error values
const (
	SessionIDKey = "session_id"
	IdentityKey  = "identity"
)
