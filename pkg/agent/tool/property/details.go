package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const maxSpokenFeatures = 3

type getPropertyDetailsTool struct {
	*deps
}

func (t *getPropertyDetailsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        ToolGetPropertyDetails,
		Description: "Get the full details of a property by its ID, as returned by search_properties.",
		Parameters: map[string]*gollem.Parameter{
			"property_id": {
				Type:        gollem.TypeString,
				Description: "Property ID, e.g. \"prop-001\"",
				Required:    true,
			},
		},
	}
}

func (t *getPropertyDetailsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return tool.TextResult(t.Invoke(ctx, args))
}

func (t *getPropertyDetailsTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	id, err := tool.RequiredString(args, "property_id")
	if err != nil {
		return "", err
	}

	tool.Update(ctx, fmt.Sprintf("Looking up property %s...", id))

	rec, err := t.inventory.Get(ctx, model.PropertyID(id))
	if err != nil {
		if !errors.Is(err, model.ErrPropertyNotFound) {
			_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to get property", goerr.V("id", id)), "property lookup failed")
		}
		return fmt.Sprintf("Sorry, I couldn't find details for property %s.", id), nil
	}

	response, err := marshalResponse(rec)
	if err != nil {
		return "", err
	}
	t.rememberDetached(ctx, &model.ConversationRecord{
		UserQuery:       "Get details for " + id,
		AgentResponse:   response,
		PropertyID:      rec.ID,
		PropertyContext: rec.Copy(),
	})

	return formatDetails(rec), nil
}

func formatDetails(rec *model.PropertyRecord) string {
	features := rec.Features
	if len(features) > maxSpokenFeatures {
		features = features[:maxSpokenFeatures]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rec.Address)
	fmt.Fprintf(&b, "Price: $%s\n", humanize.Comma(rec.Price))
	fmt.Fprintf(&b, "%d bed, %d bath, %d parking\n", rec.Bedrooms, rec.Bathrooms, rec.Parking)
	fmt.Fprintf(&b, "Built: %d\n\n", rec.Year)
	fmt.Fprintf(&b, "Features: %s\n\n", strings.Join(features, ", "))
	b.WriteString(rec.Description)
	return b.String()
}
