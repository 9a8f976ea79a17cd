package ai

import "context"

// CompletionService is the single boundary to the text-generation service.
// The pipeline uses it for the main reply, fact extraction, one-line
// summarization and session-end summarization; every call site must tolerate
// empty or non-conforming output.
// Implement this interface to add new providers (Groq, Ollama, OpenAI, etc.)
type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ProviderType represents the completion provider type
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
