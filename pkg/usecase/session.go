package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/agent/tool/property"
	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/domain/model/config"
	"github.com/haus-labs/haus-agent/pkg/service/cortex"
	"github.com/haus-labs/haus-agent/pkg/utils/async"
	"github.com/haus-labs/haus-agent/pkg/utils/errutil"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/agent_system.md
var agentInstructions string

// GreetingInstruction is handed to the pipeline for the first, unprompted reply.
const GreetingInstruction = "Greet the user warmly, mention you're HAUS their property assistant, and ask what they're looking for. Keep it brief and conversational."

// Instructions returns the static system instructions for the voice model.
func Instructions() string {
	return strings.TrimSpace(agentInstructions)
}

// CallMetadata is the JSON document attached to a call by the dispatcher.
type CallMetadata struct {
	UserID string `json:"userId"`
}

// UnmarshalJSON accepts any JSON type for userId. Strings are used as is,
// other non-empty values by their JSON text. Empty values (null, "", 0,
// false, [] and {}) leave UserID unset.
func (x *CallMetadata) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return goerr.Wrap(err, "call metadata is not a JSON object")
	}

	*x = CallMetadata{}
	if raw, ok := doc["userId"]; ok {
		x.UserID = identityText(raw)
	}
	return nil
}

func identityText(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	case []any:
		if len(val) == 0 {
			return ""
		}
	case map[string]any:
		if len(val) == 0 {
			return ""
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}

// ParseCallMetadata decodes raw call metadata. Empty or malformed input is
// logged and yields zero metadata.
func ParseCallMetadata(ctx context.Context, raw string) CallMetadata {
	var md CallMetadata
	if strings.TrimSpace(raw) == "" {
		return md
	}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		logging.From(ctx).Warn("Ignoring malformed call metadata", "error", err.Error())
		return CallMetadata{}
	}
	return md
}

// ResolveIdentity picks the caller identity: metadata userId, then the room
// name, then AnonymousIdentity. Values are used verbatim.
func ResolveIdentity(md CallMetadata, roomName string) model.Identity {
	if md.UserID != "" {
		return model.Identity(md.UserID)
	}
	if roomName != "" {
		return model.Identity(roomName)
	}
	return model.AnonymousIdentity
}

// InitialGreetingContext seeds a working context with the greeting directive.
func InitialGreetingContext(identity model.Identity) *model.WorkingContext {
	return model.NewWorkingContext(model.Message{
		Role:    model.RoleAssistant,
		Content: "You are speaking with user " + identity.String() + ". Greet them warmly and ask how you can help with their property search today.",
	})
}

// MemoryClientFactory creates the per-call memory client.
type MemoryClientFactory func(baseURL string, tuning config.Tuning) (interfaces.MemoryClient, error)

func newCortexClient(baseURL string, tuning config.Tuning) (interfaces.MemoryClient, error) {
	return cortex.New(baseURL, cortex.WithTimeout(tuning.MemoryClient.Timeout))
}

// Session is the state of one call. It is released by Close.
type Session struct {
	ID            model.SessionID
	Identity      model.Identity
	MemorySpaceID model.MemorySpaceID
	Context       *model.WorkingContext
	Mediator      *ContextMediator
	Tools         *tool.Registry
	Instructions  string
	Greeting      string
	Pipeline      model.PipelineSelectors

	memory    interfaces.MemoryClient
	turn      sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Close releases the call's memory client. In-flight detached writes are not
// affected. Close is idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.memory != nil {
			s.closeErr = s.memory.Close()
		}
	})
	return s.closeErr
}

// StartSessionInput carries what the hosting pipeline knows when a call connects.
type StartSessionInput struct {
	RoomName string
	Metadata string
}

// SessionUseCase bootstraps calls and keeps the live ones addressable by ID.
type SessionUseCase struct {
	cfg             *model.AgentConfig
	tuning          config.Tuning
	inventory       interfaces.PropertyProvider
	dispatcher      *async.Dispatcher
	newMemoryClient MemoryClientFactory

	mu       sync.RWMutex
	sessions map[model.SessionID]*Session
}

type SessionOption func(*SessionUseCase)

// WithTuning overrides config.DefaultTuning.
func WithTuning(tuning config.Tuning) SessionOption {
	return func(uc *SessionUseCase) {
		uc.tuning = tuning
	}
}

// WithMemoryClientFactory replaces the Cortex HTTP client, e.g. in tests.
func WithMemoryClientFactory(f MemoryClientFactory) SessionOption {
	return func(uc *SessionUseCase) {
		uc.newMemoryClient = f
	}
}

// NewSessionUseCase creates a SessionUseCase. cfg is shared read-only by every call.
func NewSessionUseCase(cfg *model.AgentConfig, inventory interfaces.PropertyProvider, dispatcher *async.Dispatcher, opts ...SessionOption) *SessionUseCase {
	uc := &SessionUseCase{
		cfg:             cfg,
		tuning:          config.DefaultTuning(),
		inventory:       inventory,
		dispatcher:      dispatcher,
		newMemoryClient: newCortexClient,
		sessions:        make(map[model.SessionID]*Session),
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.dispatcher == nil {
		uc.dispatcher = async.NewDispatcher(async.WithMaxInFlight(uc.tuning.Dispatch.MaxInFlight))
	}
	return uc
}

// Start bootstraps a call: it resolves the identity, ensures the memory space
// and wires the mediator and tools. A missing memory space is logged and the
// call proceeds without it.
func (uc *SessionUseCase) Start(ctx context.Context, input StartSessionInput) (sess *Session, err error) {
	md := ParseCallMetadata(ctx, input.Metadata)
	identity := ResolveIdentity(md, input.RoomName)
	sessionID := model.NewSessionID()

	logger := logging.From(ctx).With(SessionIDKey, sessionID, IdentityKey, identity)
	ctx = logging.With(ctx, logger)

	client, err := uc.newMemoryClient(uc.cfg.MemoryBaseURL, uc.tuning)
	if err != nil {
		return nil, errutil.Handle(ctx, goerr.Wrap(err, "failed to create memory client",
			goerr.V(SessionIDKey, sessionID),
			goerr.V(IdentityKey, identity),
		), "session setup failed")
	}
	defer func() {
		if err != nil {
			_ = client.Close()
		}
	}()

	spaceID, ok := client.EnsureMemorySpace(ctx, identity)
	if ok {
		logger.Info("Memory space ready", "memory_space_id", spaceID)
	} else {
		logger.Warn("Memory space unavailable, continuing without it")
	}

	tools := property.New(identity, client, uc.inventory, uc.dispatcher,
		property.WithConfidence(uc.tuning.Confidence.Positive, uc.tuning.Confidence.Negative),
		property.WithDefaultState(uc.tuning.DefaultState),
	)

	sess = &Session{
		ID:            sessionID,
		Identity:      identity,
		MemorySpaceID: spaceID,
		Context:       InitialGreetingContext(identity),
		Mediator:      NewContextMediator(identity, client, uc.tuning.Mediator),
		Tools:         tools,
		Instructions:  Instructions(),
		Greeting:      GreetingInstruction,
		Pipeline:      uc.cfg.Pipeline,
		memory:        client,
	}

	uc.mu.Lock()
	uc.sessions[sess.ID] = sess
	uc.mu.Unlock()

	logger.Info("Session started", "room", input.RoomName)
	return sess, nil
}

// Get returns a live session.
func (uc *SessionUseCase) Get(id model.SessionID) (*Session, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	sess, ok := uc.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "session is not live", goerr.V(SessionIDKey, id))
	}
	return sess, nil
}

// HandleTurn runs the mediator for a finalized utterance and returns the
// injected context. Turns of one session are serialized.
func (uc *SessionUseCase) HandleTurn(ctx context.Context, id model.SessionID, text string) ([]model.Message, error) {
	sess, err := uc.Get(id)
	if err != nil {
		return nil, err
	}

	sess.turn.Lock()
	defer sess.turn.Unlock()

	return sess.Mediator.OnUserTurnCompleted(ctx, sess.Context, text), nil
}

// AppendMessage records a message produced outside the mediator, typically
// the model's spoken reply.
func (uc *SessionUseCase) AppendMessage(ctx context.Context, id model.SessionID, msg model.Message) error {
	if err := msg.Role.Validate(); err != nil {
		return err
	}

	sess, err := uc.Get(id)
	if err != nil {
		return err
	}

	sess.Context.Append(msg)
	return nil
}

// InvokeTool runs a tool on behalf of the session's model.
func (uc *SessionUseCase) InvokeTool(ctx context.Context, id model.SessionID, name string, args map[string]any) (string, error) {
	sess, err := uc.Get(id)
	if err != nil {
		return "", err
	}

	ctx = logging.With(ctx, logging.From(ctx).With(SessionIDKey, sess.ID, IdentityKey, sess.Identity))
	return sess.Tools.Invoke(tool.WithWorkingContext(ctx, sess.Context), name, args)
}

// End removes the session and releases its resources.
func (uc *SessionUseCase) End(ctx context.Context, id model.SessionID) error {
	uc.mu.Lock()
	sess, ok := uc.sessions[id]
	delete(uc.sessions, id)
	uc.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "session is not live", goerr.V(SessionIDKey, id))
	}

	if err := sess.Close(); err != nil {
		return goerr.Wrap(err, "failed to close session", goerr.V(SessionIDKey, id))
	}
	logging.From(ctx).Info("Session ended", SessionIDKey, id, IdentityKey, sess.Identity)
	return nil
}

// Len returns the number of live sessions.
func (uc *SessionUseCase) Len() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// Shutdown ends every live session, then waits for detached writes up to the
// configured grace period.
func (uc *SessionUseCase) Shutdown(ctx context.Context) error {
	uc.mu.Lock()
	sessions := uc.sessions
	uc.sessions = make(map[model.SessionID]*Session)
	uc.mu.Unlock()

	for id, sess := range sessions {
		if err := sess.Close(); err != nil {
			logging.From(ctx).Warn("Failed to close session", SessionIDKey, id, "error", err.Error())
		}
	}

	return uc.dispatcher.Drain(ctx, uc.tuning.Dispatch.DrainGrace)
}
