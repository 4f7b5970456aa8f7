package model

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Role tags a message in the working context.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ErrInvalidRole is returned when a role outside user/assistant/system is given.
var ErrInvalidRole = goerr.New("invalid message role")

// Validate checks that the role is one of the known roles.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return nil
	default:
		return goerr.Wrap(ErrInvalidRole, "unknown role", goerr.V("role", string(r)))
	}
}

// Message is a single role-tagged entry of the working context. Recalled
// marks context injected from memory; such messages are never spoken.
type Message struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	Recalled bool   `json:"recalled,omitempty"`
}

// WorkingContext is the ordered message sequence the model consults before
// generating its next reply. It is safe for concurrent use.
type WorkingContext struct {
	mu       sync.RWMutex
	messages []Message
}

// NewWorkingContext returns a WorkingContext seeded with msgs.
func NewWorkingContext(msgs ...Message) *WorkingContext {
	wc := &WorkingContext{}
	wc.Append(msgs...)
	return wc
}

// Append adds msgs to the end of the context.
func (x *WorkingContext) Append(msgs ...Message) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.messages = append(x.messages, msgs...)
}

// Messages returns a copy of the current sequence.
func (x *WorkingContext) Messages() []Message {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Message, len(x.messages))
	copy(out, x.messages)
	return out
}

// Last returns the most recent entry, if any.
func (x *WorkingContext) Last() (Message, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.messages) == 0 {
		return Message{}, false
	}
	return x.messages[len(x.messages)-1], true
}

// Len returns the number of entries.
func (x *WorkingContext) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.messages)
}
