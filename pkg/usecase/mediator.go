package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/domain/model/config"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
)

// ContextMediator decides which remembered facts reach the model on each turn.
// One mediator serves one call.
type ContextMediator struct {
	identity model.Identity
	memory   interfaces.MemoryClient
	limits   config.MediatorLimits
}

// NewContextMediator creates a mediator for identity. Zero limits fall back to the defaults.
func NewContextMediator(identity model.Identity, memory interfaces.MemoryClient, limits config.MediatorLimits) *ContextMediator {
	defaults := config.DefaultTuning().Mediator
	if limits.RecallLimit <= 0 {
		limits.RecallLimit = defaults.RecallLimit
	}
	if limits.SuburbLimit <= 0 {
		limits.SuburbLimit = defaults.SuburbLimit
	}
	if limits.FactLimit <= 0 {
		limits.FactLimit = defaults.FactLimit
	}
	if limits.InteractionLimit <= 0 {
		limits.InteractionLimit = defaults.InteractionLimit
	}

	return &ContextMediator{
		identity: identity,
		memory:   memory,
		limits:   limits,
	}
}

// OnUserTurnCompleted runs once per finalized utterance and must return
// before generation starts. It recalls memory for text, then appends the
// recalled context followed by the user's message to wc. The injected
// messages are returned. Recall failures yield no injected messages.
func (m *ContextMediator) OnUserTurnCompleted(ctx context.Context, wc *model.WorkingContext, text string) []model.Message {
	recalled := m.memory.RecallContext(ctx, m.identity, text, m.limits.RecallLimit)
	injected := BuildContextMessages(recalled, m.limits)

	logging.From(ctx).Debug("recalled context for turn",
		"identity", m.identity,
		"injected", len(injected),
	)

	wc.Append(append(injected, model.Message{Role: model.RoleUser, Content: text})...)
	return injected
}

// BuildContextMessages renders a recall result as assistant-role context.
// Entries are taken in service order and truncated to limits.
func BuildContextMessages(recalled *model.RecallResult, limits config.MediatorLimits) []model.Message {
	if recalled == nil {
		return []model.Message{}
	}

	msgs := make([]model.Message, 0)

	if prefs := head(recalled.SuburbPreferences, limits.SuburbLimit); len(prefs) > 0 {
		parts := make([]string, len(prefs))
		for i, p := range prefs {
			parts[i] = fmt.Sprintf("%s (score: %s)", p.SuburbName, formatNumber(p.PreferenceScore))
		}
		msgs = append(msgs, recalledMessage("User's suburb preferences: "+strings.Join(parts, ", ")))
	}

	for _, f := range head(recalled.Facts, limits.FactLimit) {
		msgs = append(msgs, recalledMessage(fmt.Sprintf("Remembered: %s (confidence: %s%%)", f.Fact, formatNumber(f.Confidence))))
	}

	for _, pi := range head(recalled.PropertyInteractions, limits.InteractionLimit) {
		msgs = append(msgs, recalledMessage(fmt.Sprintf("User recently viewed: %s (%s)", pi.PropertyID, pi.InteractionType)))
	}

	return msgs
}

func recalledMessage(content string) model.Message {
	return model.Message{Role: model.RoleAssistant, Content: content, Recalled: true}
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// formatNumber prints 85 as "85" and 0.92 as "0.92".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
