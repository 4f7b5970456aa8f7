package config

// NewAgentForTest creates an Agent config for testing purposes
func NewAgentForTest(liveKitAPIKey, liveKitAPISecret, convexURL, openAIAPIKey string) *Agent {
	return &Agent{
		liveKitAPIKey:    liveKitAPIKey,
		liveKitAPISecret: liveKitAPISecret,
		convexURL:        convexURL,
		openAIAPIKey:     openAIAPIKey,
		stt:              DefaultSTT,
		llm:              DefaultLLM,
		tts:              DefaultTTS,
		ttsVoice:         DefaultTTSVoice,
	}
}

// NewInventoryForTest creates an Inventory config for testing purposes
func NewInventoryForTest(backend, projectID string) *Inventory {
	return &Inventory{
		backend:   backend,
		projectID: projectID,
	}
}

// NewTuningForTest creates a Tuning config for testing purposes
func NewTuningForTest(path string) *Tuning {
	return &Tuning{path: path}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
