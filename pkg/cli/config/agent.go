package config

import (
	"log/slog"
	"strings"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	DefaultSTT      = "assemblyai/universal-streaming:en"
	DefaultLLM      = "openai/gpt-4o-mini"
	DefaultTTS      = "cartesia/sonic-3:9626c31c-bec5-4cca-baa8-f8ba9e84c8bc"
	DefaultTTSVoice = "coral"
)

// Agent holds CLI flags for the voice agent: pipeline credentials, the
// memory service base URL and the capability selectors.
type Agent struct {
	liveKitAPIKey    string
	liveKitAPISecret string
	liveKitURL       string
	convexURL        string
	openAIAPIKey     string
	elevenLabsAPIKey string
	stt              string
	llm              string
	tts              string
	ttsVoice         string
}

// Flags returns CLI flags for agent configuration
func (a *Agent) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "livekit-api-key",
			Category:    "Agent",
			Usage:       "LiveKit API key",
			Sources:     cli.EnvVars("LIVEKIT_API_KEY"),
			Destination: &a.liveKitAPIKey,
		},
		&cli.StringFlag{
			Name:        "livekit-api-secret",
			Category:    "Agent",
			Usage:       "LiveKit API secret",
			Sources:     cli.EnvVars("LIVEKIT_API_SECRET"),
			Destination: &a.liveKitAPISecret,
		},
		&cli.StringFlag{
			Name:        "livekit-url",
			Category:    "Agent",
			Usage:       "LiveKit server URL",
			Sources:     cli.EnvVars("LIVEKIT_URL"),
			Destination: &a.liveKitURL,
		},
		&cli.StringFlag{
			Name:        "convex-url",
			Category:    "Agent",
			Usage:       "Base URL of the memory service",
			Sources:     cli.EnvVars("CONVEX_URL", "NEXT_PUBLIC_CONVEX_URL"),
			Destination: &a.convexURL,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Category:    "Agent",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &a.openAIAPIKey,
		},
		&cli.StringFlag{
			Name:        "elevenlabs-api-key",
			Category:    "Agent",
			Usage:       "ElevenLabs API key (optional alternate voice)",
			Sources:     cli.EnvVars("ELEVENLABS_API_KEY"),
			Destination: &a.elevenLabsAPIKey,
		},
		&cli.StringFlag{
			Name:        "stt",
			Category:    "Agent",
			Usage:       "Speech-to-text provider selector",
			Value:       DefaultSTT,
			Sources:     cli.EnvVars("HAUS_STT"),
			Destination: &a.stt,
		},
		&cli.StringFlag{
			Name:        "llm",
			Category:    "Agent",
			Usage:       "Language model selector (provider/model)",
			Value:       DefaultLLM,
			Sources:     cli.EnvVars("HAUS_LLM"),
			Destination: &a.llm,
		},
		&cli.StringFlag{
			Name:        "tts",
			Category:    "Agent",
			Usage:       "Text-to-speech provider selector",
			Value:       DefaultTTS,
			Sources:     cli.EnvVars("HAUS_TTS"),
			Destination: &a.tts,
		},
		&cli.StringFlag{
			Name:        "tts-voice",
			Category:    "Agent",
			Usage:       "Text-to-speech voice",
			Value:       DefaultTTSVoice,
			Sources:     cli.EnvVars("HAUS_TTS_VOICE"),
			Destination: &a.ttsVoice,
		},
	}
}

func (a Agent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("convex_url", a.convexURL),
		slog.String("livekit_url", a.liveKitURL),
		slog.String("stt", a.stt),
		slog.String("llm", a.llm),
		slog.String("tts", a.tts),
		slog.String("tts_voice", a.ttsVoice),
	)
}

// Missing returns the names of required settings that are not set, in a
// fixed order.
func (a *Agent) Missing() []string {
	var missing []string
	if a.liveKitAPIKey == "" {
		missing = append(missing, "LIVEKIT_API_KEY")
	}
	if a.liveKitAPISecret == "" {
		missing = append(missing, "LIVEKIT_API_SECRET")
	}
	if a.convexURL == "" {
		missing = append(missing, "CONVEX_URL or NEXT_PUBLIC_CONVEX_URL")
	}
	if a.openAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	return missing
}

// Validate fails with ErrMissingConfig listing every absent required setting.
func (a *Agent) Validate() error {
	if missing := a.Missing(); len(missing) > 0 {
		return goerr.Wrap(ErrMissingConfig,
			"Missing required environment variables: "+strings.Join(missing, ", "),
			goerr.V(MissingKey, missing),
		)
	}
	return nil
}

// Configure validates the flags and builds the process-wide AgentConfig.
func (a *Agent) Configure() (*model.AgentConfig, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return &model.AgentConfig{
		MemoryBaseURL: strings.TrimRight(a.convexURL, "/"),
		Pipeline: model.PipelineSelectors{
			STT:      a.stt,
			LLM:      a.llm,
			TTS:      a.tts,
			TTSVoice: a.ttsVoice,
		},
		Credentials: model.Credentials{
			LiveKitAPIKey:    a.liveKitAPIKey,
			LiveKitAPISecret: a.liveKitAPISecret,
			LiveKitURL:       a.liveKitURL,
			OpenAIAPIKey:     a.openAIAPIKey,
			ElevenLabsAPIKey: a.elevenLabsAPIKey,
		},
	}, nil
}
