package model

// PipelineSelectors are the provider selector strings handed to the hosted
// voice pipeline. They are opaque to this service.
type PipelineSelectors struct {
	STT      string `json:"stt"`
	LLM      string `json:"llm"`
	TTS      string `json:"tts"`
	TTSVoice string `json:"ttsVoice"`
}

// Credentials are passed through to the hosted pipeline. Only the model
// credential is used locally, by the text driver.
type Credentials struct {
	LiveKitAPIKey    string `masq:"secret"`
	LiveKitAPISecret string `masq:"secret"`
	LiveKitURL       string
	OpenAIAPIKey     string `masq:"secret"`
	ElevenLabsAPIKey string `masq:"secret"`
}

// AgentConfig is built once at process start and shared read-only by every call.
type AgentConfig struct {
	MemoryBaseURL string
	Pipeline      PipelineSelectors
	Credentials   Credentials
}
