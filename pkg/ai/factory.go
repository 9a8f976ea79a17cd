package ai

// Config holds completion provider configuration
type Config struct {
	Provider ProviderType // "groq", "ollama" or "auto"

	// Groq config
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewCompletionService creates a CompletionService based on the config.
// This is the factory function - switch providers by changing cfg.Provider.
func NewCompletionService(cfg Config) CompletionService {
	switch cfg.Provider {
	case ProviderGroq:
		return NewGroqService(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)

	default:
		// Auto: Groq when an API key is configured, with Ollama as the
		// fallback; Ollama alone otherwise.
		if cfg.GroqAPIKey != "" {
			return NewFallbackService(
				NewGroqService(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel),
				NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel),
			)
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
	}
}
