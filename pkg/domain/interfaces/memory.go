package interfaces

import (
	"context"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
)

// MemoryClient is the per-call client of the remote memory service.
// No method returns an error: failures are logged and converted to a safe
// default so that the live conversation is never interrupted.
type MemoryClient interface {
	// EnsureMemorySpace returns the caller's memory space. ok is false when the
	// service could not be reached or answered without an ID.
	EnsureMemorySpace(ctx context.Context, identity model.Identity) (id model.MemorySpaceID, ok bool)

	// RecallContext returns memory relevant to query. On failure all four
	// sequences of the result are empty.
	RecallContext(ctx context.Context, identity model.Identity, query string, limit int) *model.RecallResult

	// RememberConversation records an exchange and reports whether the service accepted it.
	RememberConversation(ctx context.Context, identity model.Identity, record *model.ConversationRecord) bool

	// StorePreference records a preference and reports whether the service accepted it.
	StorePreference(ctx context.Context, identity model.Identity, pref *model.Preference) bool

	// Close releases the client's connections.
	Close() error
}
