package property

import (
	"context"
	"fmt"

	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/gollem"
)

type rememberPreferenceTool struct {
	*deps
}

func (t *rememberPreferenceTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        ToolRememberPreference,
		Description: "Remember a preference the user stated, such as a suburb they love or a feature they want to avoid, so future searches can use it.",
		Parameters: map[string]*gollem.Parameter{
			"category": {
				Type:        gollem.TypeString,
				Description: "Preference category: suburb, property_type, feature, price or other",
				Required:    true,
			},
			"preference": {
				Type:        gollem.TypeString,
				Description: "The preference itself. For suburbs use \"Suburb, STATE\", e.g. \"Bondi, NSW\"",
				Required:    true,
			},
			"is_positive": {
				Type:        gollem.TypeBoolean,
				Description: "true if the user likes it, false if they want to avoid it (default: true)",
			},
		},
	}
}

func (t *rememberPreferenceTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return tool.TextResult(t.Invoke(ctx, args))
}

func (t *rememberPreferenceTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	category, err := tool.RequiredString(args, "category")
	if err != nil {
		return "", err
	}
	value, err := tool.RequiredString(args, "preference")
	if err != nil {
		return "", err
	}
	isPositive, err := tool.OptionalBool(args, "is_positive", true)
	if err != nil {
		return "", err
	}

	pref := t.buildPreference(ctx, category, value, isPositive)

	tool.Update(ctx, "Saving your preference...")

	verb := "love"
	if !isPositive {
		verb = "prefer to avoid"
	}

	if !t.memory.StorePreference(ctx, t.identity, pref) {
		return fmt.Sprintf("Noted that you %s %s. I'll keep it in mind for this conversation.", verb, value), nil
	}
	return fmt.Sprintf("Got it! I'll remember you %s %s for future searches.", verb, value), nil
}

func (t *rememberPreferenceTool) buildPreference(ctx context.Context, category, value string, isPositive bool) *model.Preference {
	pref := &model.Preference{
		Category:   category,
		Value:      value,
		Confidence: t.negative,
		IsPositive: isPositive,
	}
	if isPositive {
		pref.Confidence = t.positive
	}

	if wc := tool.WorkingContextFrom(ctx); wc != nil {
		if last, ok := wc.Last(); ok {
			pref.Metadata.MentionedInQuery = last.Content
		}
	}

	if category == model.PreferenceCategorySuburb {
		suburb, state := model.ParseSuburb(value, t.defaultState)
		pref.Metadata.SuburbName = suburb
		pref.Metadata.State = state
		pref.Metadata.Reason = model.PreferenceReasonStated
	}

	return pref
}
