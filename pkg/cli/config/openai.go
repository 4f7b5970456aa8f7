package config

import (
	"context"
	"strings"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
)

const providerOpenAI = "openai"

// ParseModelSelector splits "openai/gpt-4o-mini" into provider and model.
func ParseModelSelector(selector string) (provider, modelName string, err error) {
	provider, modelName, ok := strings.Cut(selector, "/")
	if !ok || provider == "" || modelName == "" {
		return "", "", goerr.Wrap(ErrInvalidConfig, "model selector must be provider/model", goerr.V(SelectorKey, selector))
	}
	return strings.ToLower(provider), modelName, nil
}

// NewLLMClient builds the language model client for the text driver from
// the pipeline's LLM selector.
func NewLLMClient(ctx context.Context, cfg *model.AgentConfig) (gollem.LLMClient, error) {
	provider, modelName, err := ParseModelSelector(cfg.Pipeline.LLM)
	if err != nil {
		return nil, err
	}
	if provider != providerOpenAI {
		return nil, goerr.Wrap(ErrUnsupportedProvider, "only openai models can drive text chat", goerr.V(SelectorKey, cfg.Pipeline.LLM))
	}

	client, err := openai.New(ctx, cfg.Credentials.OpenAIAPIKey, openai.WithModel(modelName))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client", goerr.V("model", modelName))
	}
	return client, nil
}
