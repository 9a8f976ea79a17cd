package usecase

import (
	"context"
	"time"

	"aarvi-backend/internal/analyzer"
	"aarvi-backend/internal/chat/domain"
)

// MemoryContext is the three-layer generation context assembled before each
// completion request.
type MemoryContext struct {
	RecentTurns     string `json:"recent_turns"`
	LongTermSummary string `json:"long_term_summary"`
	IdentityFacts   string `json:"identity_facts"`
}

// ChatUsecase defines the chat business logic interface
type ChatUsecase interface {
	// Send appends the user turn, generates a reply from the assembled
	// context and returns it. Scheduling and memory extraction run as
	// best-effort side effects; their failure never blocks the reply.
	Send(ctx context.Context, userID, message string) (string, error)

	// Flush summarizes the session into long-term memory and truncates the
	// conversation log to unseen proactive messages.
	Flush(ctx context.Context, userID string) error

	// MarkSeen flags delivered proactive messages as observed by the client.
	MarkSeen(userID string) error

	// History returns the user's conversation log.
	History(userID string) ([]domain.Message, error)

	// BuildContext assembles the three-layer generation context.
	BuildContext(userID string) (*MemoryContext, error)
}

// ScheduleTrigger is the enqueue step invoked synchronously after each live
// user message.
type ScheduleTrigger interface {
	AnalyzeAndSchedule(userID, text string, now time.Time) (*analyzer.Result, bool, error)
}
