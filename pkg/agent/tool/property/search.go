package property

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

type searchPropertiesTool struct {
	*deps
}

func (t *searchPropertiesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        ToolSearchProperties,
		Description: "Search for properties matching the user's criteria. Call this once the user has named at least a location.",
		Parameters: map[string]*gollem.Parameter{
			"location": {
				Type:        gollem.TypeString,
				Description: "Suburb or area to search, e.g. \"Bondi\"",
				Required:    true,
			},
			"budget_min": {
				Type:        gollem.TypeInteger,
				Description: "Minimum price in dollars",
			},
			"budget_max": {
				Type:        gollem.TypeInteger,
				Description: "Maximum price in dollars",
			},
			"bedrooms": {
				Type:        gollem.TypeInteger,
				Description: "Number of bedrooms",
			},
			"property_type": {
				Type:        gollem.TypeString,
				Description: "Property type such as house, apartment or townhouse",
			},
		},
	}
}

func (t *searchPropertiesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return tool.TextResult(t.Invoke(ctx, args))
}

func (t *searchPropertiesTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	filter, err := parseFilter(args)
	if err != nil {
		return "", err
	}

	tool.Update(ctx, fmt.Sprintf("Searching properties in %s...", filter.Location))

	candidates, err := t.inventory.Search(ctx, filter)
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to search properties",
			goerr.V("location", filter.Location),
		), "property search failed")
		return fmt.Sprintf("Sorry, I couldn't search %s just now. Could you give me a moment and ask again?", filter.Location), nil
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("I couldn't find any properties in %s matching that. Would you like to adjust your budget or the number of bedrooms?", filter.Location), nil
	}

	response, err := marshalResponse(map[string]any{"results": candidates})
	if err != nil {
		return "", err
	}
	query := "Search for properties in " + filter.Location
	for _, candidate := range candidates {
		t.rememberDetached(ctx, &model.ConversationRecord{
			UserQuery:       query,
			AgentResponse:   response,
			PropertyID:      candidate.ID,
			PropertyContext: candidate.Copy(),
		})
	}

	top := candidates[0]
	return fmt.Sprintf("Found %d properties in %s. The top match is a %d bedroom at $%s. Would you like more details about any of these?",
		len(candidates), filter.Location, top.Bedrooms, humanize.Comma(top.Price)), nil
}

func parseFilter(args map[string]any) (model.PropertyFilter, error) {
	var filter model.PropertyFilter

	location, err := tool.RequiredString(args, "location")
	if err != nil {
		return filter, err
	}
	filter.Location = location

	for _, key := range []string{"budget_min", "budget_max", "bedrooms"} {
		v, ok, err := tool.OptionalInt64(args, key)
		if err != nil {
			return filter, err
		}
		if !ok {
			continue
		}
		if v < 0 {
			return filter, goerr.Wrap(tool.ErrInvalidArgument, "argument must not be negative",
				goerr.V("key", key),
				goerr.V("value", v),
			)
		}
		switch key {
		case "budget_min":
			filter.BudgetMin = &v
		case "budget_max":
			filter.BudgetMax = &v
		case "bedrooms":
			n := int(v)
			filter.Bedrooms = &n
		}
	}

	propertyType, _, err := tool.OptionalString(args, "property_type")
	if err != nil {
		return filter, err
	}
	filter.PropertyType = propertyType

	return filter, nil
}
