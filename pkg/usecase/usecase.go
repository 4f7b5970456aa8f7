package usecase

import (
	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/async"
	"github.com/m-mizutani/gollem"
)

type UseCases struct {
	Session      *SessionUseCase
	Conversation *ConversationUseCase
}

type Option func(*options)

type options struct {
	llmClient  gollem.LLMClient
	dispatcher *async.Dispatcher
	session    []SessionOption
}

// WithLLMClient enables the text conversation driver.
func WithLLMClient(client gollem.LLMClient) Option {
	return func(o *options) {
		o.llmClient = client
	}
}

// WithDispatcher sets the dispatcher used for detached memory writes.
func WithDispatcher(d *async.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithSessionOptions passes options through to NewSessionUseCase.
func WithSessionOptions(opts ...SessionOption) Option {
	return func(o *options) {
		o.session = append(o.session, opts...)
	}
}

// New builds the use cases. Conversation is nil unless an LLM client is given.
func New(cfg *model.AgentConfig, inventory interfaces.PropertyProvider, opts ...Option) *UseCases {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	uc := &UseCases{
		Session: NewSessionUseCase(cfg, inventory, o.dispatcher, o.session...),
	}
	if o.llmClient != nil {
		uc.Conversation = NewConversationUseCase(uc.Session, o.llmClient)
	}
	return uc
}
