package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haus-labs/haus-agent/pkg/cli/config"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	modelconfig "github.com/haus-labs/haus-agent/pkg/domain/model/config"
	"github.com/haus-labs/haus-agent/pkg/repository/memory"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

func TestAgent_Validate(t *testing.T) {
	t.Run("all required values present", func(t *testing.T) {
		cfg := config.NewAgentForTest("key", "secret", "https://convex.example.com/", "sk-test")
		agentCfg, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, agentCfg.MemoryBaseURL).Equal("https://convex.example.com")
		gt.Value(t, agentCfg.Pipeline).Equal(model.PipelineSelectors{
			STT:      config.DefaultSTT,
			LLM:      config.DefaultLLM,
			TTS:      config.DefaultTTS,
			TTSVoice: config.DefaultTTSVoice,
		})
		gt.Value(t, agentCfg.Credentials.OpenAIAPIKey).Equal("sk-test")
	})

	t.Run("lists every missing value", func(t *testing.T) {
		cfg := config.NewAgentForTest("", "secret", "", "")
		gt.Value(t, cfg.Missing()).Equal([]string{
			"LIVEKIT_API_KEY",
			"CONVEX_URL or NEXT_PUBLIC_CONVEX_URL",
			"OPENAI_API_KEY",
		})

		_, err := cfg.Configure()
		gt.Error(t, err).Is(config.ErrMissingConfig)
		gt.String(t, err.Error()).Contains("LIVEKIT_API_KEY, CONVEX_URL or NEXT_PUBLIC_CONVEX_URL, OPENAI_API_KEY")
		var ge *goerr.Error
		gt.Bool(t, errors.As(err, &ge)).True().Required()
		gt.Value(t, ge.Values()[config.MissingKey]).Equal([]string{
			"LIVEKIT_API_KEY",
			"CONVEX_URL or NEXT_PUBLIC_CONVEX_URL",
			"OPENAI_API_KEY",
		})
	})
}

func TestAgent_Flags(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "lk-key")
	t.Setenv("LIVEKIT_API_SECRET", "lk-secret")
	t.Setenv("NEXT_PUBLIC_CONVEX_URL", "https://fallback.example.com")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("HAUS_TTS_VOICE", "ash")

	var agentCfg config.Agent
	var built *model.AgentConfig
	cmd := &cli.Command{
		Name:  "test",
		Flags: agentCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			var err error
			built, err = agentCfg.Configure()
			return err
		},
	}

	gt.NoError(t, cmd.Run(context.Background(), []string{"test"})).Required()
	gt.Value(t, built.MemoryBaseURL).Equal("https://fallback.example.com")
	gt.Value(t, built.Pipeline.TTSVoice).Equal("ash")
	gt.Value(t, built.Pipeline.LLM).Equal(config.DefaultLLM)
	gt.Value(t, built.Credentials.LiveKitAPIKey).Equal("lk-key")
}

func TestParseTuning(t *testing.T) {
	t.Run("empty document keeps defaults", func(t *testing.T) {
		tuning, err := config.ParseTuning([]byte(""))
		gt.NoError(t, err).Required()
		gt.Value(t, tuning).Equal(modelconfig.DefaultTuning())
	})

	t.Run("overrides given keys only", func(t *testing.T) {
		tuning, err := config.ParseTuning([]byte(`
[mediator]
fact_limit = 2

[preference]
positive_confidence = 90
default_state = "VIC"

[memory]
timeout = "5s"

[dispatch]
max_in_flight = 4
drain_grace = "1m"
`))
		gt.NoError(t, err).Required()
		gt.Value(t, tuning.Mediator.FactLimit).Equal(2)
		gt.Value(t, tuning.Mediator.SuburbLimit).Equal(5)
		gt.Value(t, tuning.Mediator.InteractionLimit).Equal(3)
		gt.Value(t, tuning.Confidence.Positive).Equal(90)
		gt.Value(t, tuning.Confidence.Negative).Equal(70)
		gt.Value(t, tuning.DefaultState).Equal("VIC")
		gt.Value(t, tuning.MemoryClient.Timeout).Equal(5 * time.Second)
		gt.Value(t, tuning.Dispatch.MaxInFlight).Equal(int64(4))
		gt.Value(t, tuning.Dispatch.DrainGrace).Equal(time.Minute)
	})

	testCases := map[string]string{
		"malformed toml":      "[mediator\nfact_limit = 2",
		"zero limit":          "[mediator]\nsuburb_limit = 0",
		"confidence too high": "[preference]\nnegative_confidence = 120",
		"bad duration":        "[memory]\ntimeout = \"soon\"",
		"negative timeout":    "[memory]\ntimeout = \"-1s\"",
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseTuning([]byte(doc))
			gt.Error(t, err).Is(config.ErrInvalidConfig)
		})
	}
}

func TestTuning_Configure(t *testing.T) {
	t.Run("no path returns defaults", func(t *testing.T) {
		tuning, err := config.NewTuningForTest("").Configure()
		gt.NoError(t, err)
		gt.Value(t, tuning).Equal(modelconfig.DefaultTuning())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tuning.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[mediator]\nrecall_limit = 20\n"), 0600)).Required()

		tuning, err := config.NewTuningForTest(path).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, tuning.Mediator.RecallLimit).Equal(20)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.NewTuningForTest(filepath.Join(t.TempDir(), "absent.toml")).Configure()
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}

func TestInventory_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		store, err := config.NewInventoryForTest("memory", "").Configure(context.Background())
		gt.NoError(t, err).Required()
		defer store.Close()

		_, ok := store.(*memory.PropertyInventory)
		gt.Bool(t, ok).True()
	})

	t.Run("firestore backend requires project", func(t *testing.T) {
		_, err := config.NewInventoryForTest("firestore", "").Configure(context.Background())
		gt.Error(t, err).Is(config.ErrMissingConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewInventoryForTest("postgres", "").Configure(context.Background())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestParseModelSelector(t *testing.T) {
	provider, modelName, err := config.ParseModelSelector("OpenAI/gpt-4o-mini")
	gt.NoError(t, err)
	gt.Value(t, provider).Equal("openai")
	gt.Value(t, modelName).Equal("gpt-4o-mini")

	for _, selector := range []string{"gpt-4o-mini", "/gpt", "openai/", ""} {
		_, _, err := config.ParseModelSelector(selector)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	}
}

func TestNewLLMClient_UnsupportedProvider(t *testing.T) {
	_, err := config.NewLLMClient(context.Background(), &model.AgentConfig{
		Pipeline: model.PipelineSelectors{LLM: "anthropic/claude"},
	})
	gt.Error(t, err).Is(config.ErrUnsupportedProvider)
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	t.Run("json to file redacts secrets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "haus.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("configured", "credentials", model.Credentials{
			LiveKitURL:   "wss://livekit.example.com",
			OpenAIAPIKey: "sk-very-secret",
		})
		closer()

		raw, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(raw)).Contains("wss://livekit.example.com")
		gt.Bool(t, strings.Contains(string(raw), "sk-very-secret")).False()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestInventory_Persistent(t *testing.T) {
	gt.Bool(t, config.NewInventoryForTest("firestore", "p").Persistent()).True()
	gt.Bool(t, config.NewInventoryForTest("memory", "").Persistent()).False()
	gt.Bool(t, config.NewInventoryForTest("", "").Persistent()).False()
}
