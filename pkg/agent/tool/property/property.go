// Package property provides the tools the voice model calls during a call:
// property search, preference capture and listing details.
package property

import (
	"context"
	"encoding/json"

	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/async"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	ToolSearchProperties   = "search_properties"
	ToolRememberPreference = "remember_preference"
	ToolGetPropertyDetails = "get_property_details"

	defaultPositiveConfidence = 80
	defaultNegativeConfidence = 70
)

// deps is shared by the three tools of one call.
type deps struct {
	identity     model.Identity
	memory       interfaces.MemoryClient
	inventory    interfaces.PropertyProvider
	dispatcher   *async.Dispatcher
	positive     int
	negative     int
	defaultState string
}

type Option func(*deps)

// WithConfidence sets the confidence recorded for liked and disliked preferences.
func WithConfidence(positive, negative int) Option {
	return func(d *deps) {
		d.positive = positive
		d.negative = negative
	}
}

// WithDefaultState sets the state used for suburb preferences that name none.
func WithDefaultState(state string) Option {
	return func(d *deps) {
		if state != "" {
			d.defaultState = state
		}
	}
}

// New builds the tool registry for one call. Writes issued by search and
// details are dispatched on dispatcher and outlive the call.
func New(identity model.Identity, memory interfaces.MemoryClient, inventory interfaces.PropertyProvider, dispatcher *async.Dispatcher, opts ...Option) *tool.Registry {
	d := &deps{
		identity:     identity,
		memory:       memory,
		inventory:    inventory,
		dispatcher:   dispatcher,
		positive:     defaultPositiveConfidence,
		negative:     defaultNegativeConfidence,
		defaultState: model.DefaultSuburbState,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.dispatcher == nil {
		d.dispatcher = async.NewDispatcher()
	}

	return tool.NewRegistry(
		&searchPropertiesTool{deps: d},
		&rememberPreferenceTool{deps: d},
		&getPropertyDetailsTool{deps: d},
	)
}

// rememberDetached records an exchange without making the caller wait. The
// outcome is only logged.
func (d *deps) rememberDetached(ctx context.Context, record *model.ConversationRecord) {
	identity := d.identity
	d.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
		if !d.memory.RememberConversation(ctx, identity, record) {
			logging.From(ctx).Debug("conversation not remembered",
				"identity", identity,
				"property_id", record.PropertyID,
			)
		}
		return nil
	})
}

func marshalResponse(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal agent response")
	}
	return string(raw), nil
}
