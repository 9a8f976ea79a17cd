package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqService implements CompletionService against any OpenAI-compatible
// chat-completions endpoint (Groq by default).
type GroqService struct {
	client *openai.Client
	model  string
}

// NewGroqService creates a new Groq-backed completion service.
func NewGroqService(apiKey, baseURL, model string) *GroqService {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	cl := openai.NewClient(opts...)
	return &GroqService{
		client: &cl,
		model:  model,
	}
}

// Complete implements CompletionService
func (g *GroqService) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
