package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"aarvi-backend/internal/chat/domain"
	"aarvi-backend/internal/chat/repository"
	"aarvi-backend/pkg/ai"
)

const extractionTimeout = 30 * time.Second

// chatUsecase implements ChatUsecase
type chatUsecase struct {
	conversations repository.ConversationRepository
	memories      repository.MemoryRepository
	completion    ai.CompletionService
	scheduler     ScheduleTrigger
}

// NewChatUsecase creates a new instance of chatUsecase
func NewChatUsecase(
	conversations repository.ConversationRepository,
	memories repository.MemoryRepository,
	completion ai.CompletionService,
	scheduler ScheduleTrigger,
) ChatUsecase {
	return &chatUsecase{
		conversations: conversations,
		memories:      memories,
		completion:    completion,
		scheduler:     scheduler,
	}
}

func (u *chatUsecase) Send(ctx context.Context, userID, message string) (string, error) {
	now := time.Now()

	if err := u.conversations.Append(userID, domain.Message{
		Role:      domain.RoleUser,
		Content:   message,
		CreatedAt: now,
	}); err != nil {
		log.Printf("[Chat] Failed to append user message for %s: %v", userID, err)
	}

	mc, err := u.BuildContext(userID)
	if err != nil {
		log.Printf("[Chat] Failed to build context for %s: %v", userID, err)
		mc = emptyContext()
	}

	reply, err := u.completion.Complete(ctx, personaPrompt(mc), message)
	if err != nil {
		return "", err
	}

	if err := u.conversations.Append(userID, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Printf("[Chat] Failed to append assistant reply for %s: %v", userID, err)
	}

	// Best-effort side effects. The reply goes back to the user no matter
	// what happens here.
	if u.scheduler != nil {
		if _, scheduled, err := u.scheduler.AnalyzeAndSchedule(userID, message, now); err != nil {
			log.Printf("[Chat] Scheduling side effect failed for %s: %v", userID, err)
		} else if scheduled {
			log.Printf("[Chat] Scheduled a proactive message for %s", userID)
		}
	}
	if reply != "" {
		go u.extractMemory(userID, reply)
	}

	return reply, nil
}

// extractMemory runs the two fact-extraction paths over an assistant reply
// and feeds both into the identity fact list. Fire-and-forget-but-handled:
// any failure degrades to "no new facts".
func (u *chatUsecase) extractMemory(userID, reply string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Chat] Memory extraction panicked for %s: %v", userID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
	defer cancel()

	var facts []string

	raw, err := u.completion.Complete(ctx, factExtractionPrompt, reply)
	if err != nil {
		log.Printf("[Chat] Fact extraction call failed for %s: %v", userID, err)
	} else {
		facts = parseFactArray(raw)
	}

	oneLiner, err := u.completion.Complete(ctx, replySummaryPrompt, reply)
	if err != nil {
		log.Printf("[Chat] Reply summarizer call failed for %s: %v", userID, err)
	} else if s := strings.TrimSpace(oneLiner); s != "" {
		facts = append(facts, s)
	}

	if len(facts) == 0 {
		return
	}
	if err := u.memories.AppendFacts(userID, facts...); err != nil {
		log.Printf("[Chat] Failed to store facts for %s: %v", userID, err)
	}
}

func (u *chatUsecase) Flush(ctx context.Context, userID string) error {
	conv, err := u.conversations.Get(userID)
	if err != nil {
		return err
	}
	if len(conv.Messages) == 0 {
		return nil
	}

	var toSummarize []domain.Message
	var unseenProactive []domain.Message
	for _, m := range conv.Messages {
		switch {
		case m.Proactive && !m.Seen:
			unseenProactive = append(unseenProactive, m)
		case !m.Proactive && (m.Role == domain.RoleUser || m.Role == domain.RoleAssistant):
			toSummarize = append(toSummarize, m)
		}
	}

	// Only proactive messages present: keep the unseen ones, nothing to
	// summarize.
	if len(toSummarize) == 0 {
		return u.conversations.Replace(userID, unseenProactive)
	}

	now := time.Now()
	summary, err := u.completion.Complete(ctx, flushSummaryPrompt, renderTurns(toSummarize))
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			log.Printf("[Chat] Flush summarization failed for %s: %v", userID, err)
		}
		summary = "Summary generation failed at " + now.Format(time.RFC3339) + "."
	}

	if err := u.memories.AppendSummaryBlock(userID, summary, now); err != nil {
		// Keep the log intact rather than truncating history we failed to
		// summarize into memory.
		return err
	}

	return u.conversations.Replace(userID, unseenProactive)
}

func (u *chatUsecase) MarkSeen(userID string) error {
	return u.conversations.MarkProactiveSeen(userID)
}

func (u *chatUsecase) History(userID string) ([]domain.Message, error) {
	conv, err := u.conversations.Get(userID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}
