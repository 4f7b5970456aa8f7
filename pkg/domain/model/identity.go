package model

import (
	"github.com/google/uuid"
)

// AnonymousIdentity is used when a call carries neither a user ID nor a room name.
const AnonymousIdentity Identity = "anonymous"

// Identity is the opaque caller identifier. It is resolved once per call and
// never changes for the lifetime of the call.
type Identity string

func (x Identity) String() string { return string(x) }

// MemorySpaceID identifies the caller's namespace in the remote memory service.
type MemorySpaceID string

// SessionID identifies a single call handled by this process.
type SessionID string

// NewSessionID generates a time-ordered SessionID (UUID v7).
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}
