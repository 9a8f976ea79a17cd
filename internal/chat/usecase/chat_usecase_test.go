package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"aarvi-backend/internal/analyzer"
	"aarvi-backend/internal/chat/domain"
	"aarvi-backend/internal/chat/repository"
)

// stubCompletion answers completion calls from a hand-written script keyed
// by system prompt.
type stubCompletion struct {
	fn func(systemPrompt, userMessage string) (string, error)
}

func (s *stubCompletion) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	return s.fn(systemPrompt, userMessage)
}

type stubScheduler struct {
	calls int
	err   error
}

func (s *stubScheduler) AnalyzeAndSchedule(userID, text string, now time.Time) (*analyzer.Result, bool, error) {
	s.calls++
	return nil, false, s.err
}

func newTestUsecase(t *testing.T, completion *stubCompletion, scheduler ScheduleTrigger) (*chatUsecase, repository.ConversationRepository, repository.MemoryRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.UserMemory{}))

	conversations := repository.NewGormConversationRepository(db)
	memories := repository.NewGormMemoryRepository(db)
	uc := NewChatUsecase(conversations, memories, completion, scheduler).(*chatUsecase)
	return uc, conversations, memories
}

func TestSendAppendsTurnsAndReturnsReply(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		if strings.Contains(system, "You are Aarvi") {
			return "hey! how are you?", nil
		}
		// Extraction side calls yield nothing useful.
		return "", nil
	}}
	scheduler := &stubScheduler{}
	uc, conversations, _ := newTestUsecase(t, completion, scheduler)

	reply, err := uc.Send(context.Background(), "u1", "hello!")
	require.NoError(t, err)
	assert.Equal(t, "hey! how are you?", reply)
	assert.Equal(t, 1, scheduler.calls)

	conv, err := conversations.Get("u1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, domain.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, conv.Messages[1].Role)
	assert.False(t, conv.Messages[1].Proactive)
}

func TestSendSurvivesSchedulerFailure(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		return "still here for you", nil
	}}
	scheduler := &stubScheduler{err: errors.New("store unavailable")}
	uc, _, _ := newTestUsecase(t, completion, scheduler)

	reply, err := uc.Send(context.Background(), "u1", "remind me tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "still here for you", reply)
}

func TestSendPropagatesCompletionFailure(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		return "", errors.New("upstream down")
	}}
	uc, _, _ := newTestUsecase(t, completion, nil)

	_, err := uc.Send(context.Background(), "u1", "hello")
	assert.Error(t, err)
}

func TestExtractMemoryDeduplicatesAcrossReplies(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		switch system {
		case factExtractionPrompt:
			return `["I like tea"]`, nil
		case replySummaryPrompt:
			return "", nil
		}
		return "", nil
	}}
	uc, _, memories := newTestUsecase(t, completion, nil)

	// The identical fact across two replies must land exactly once.
	uc.extractMemory("u1", "I was just making tea. I like tea.")
	uc.extractMemory("u1", "Tea again! I like tea.")

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"I like tea"}, mem.IdentityFacts)
}

func TestExtractMemoryCombinesBothPaths(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		switch system {
		case factExtractionPrompt:
			return `["I live in Pune"]`, nil
		case replySummaryPrompt:
			return "Aarvi shared that she paints on weekends.", nil
		}
		return "", nil
	}}
	uc, _, memories := newTestUsecase(t, completion, nil)

	uc.extractMemory("u1", "some reply")

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"I live in Pune", "Aarvi shared that she paints on weekends."}, mem.IdentityFacts)
}

func TestExtractMemoryToleratesInvalidJSON(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		if system == factExtractionPrompt {
			return "sorry, I cannot produce JSON", nil
		}
		return "", errors.New("summarizer down")
	}}
	uc, _, memories := newTestUsecase(t, completion, nil)

	uc.extractMemory("u1", "some reply")

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Empty(t, mem.IdentityFacts)
}

func TestParseFactArray(t *testing.T) {
	assert.Equal(t, []string{"I like tea"}, parseFactArray(`["I like tea"]`))
	assert.Equal(t, []string{"a", "b"}, parseFactArray("```json\n[\"a\", \"b\"]\n```"))
	assert.Nil(t, parseFactArray("not json"))
	assert.Nil(t, parseFactArray(`{"fact": "wrong shape"}`))
	assert.Nil(t, parseFactArray(`["", "   "]`))
}

func TestBuildContextLayers(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) { return "", nil }}
	uc, conversations, memories := newTestUsecase(t, completion, nil)

	// Ten live turns plus one proactive; only the last eight live turns may
	// appear.
	for i := 0; i < 5; i++ {
		require.NoError(t, conversations.Append("u1",
			domain.Message{Role: domain.RoleUser, Content: "q" + string(rune('0'+i)), CreatedAt: time.Now()},
			domain.Message{Role: domain.RoleAssistant, Content: "a" + string(rune('0'+i)), CreatedAt: time.Now()},
		))
	}
	require.NoError(t, conversations.Append("u1",
		domain.Message{Role: domain.RoleAssistant, Content: "proactive ping", Proactive: true, CreatedAt: time.Now()},
	))
	require.NoError(t, memories.AppendFacts("u1", "I like tea"))
	require.NoError(t, memories.AppendSummaryBlock("u1", "we talked about tea", time.Now()))

	mc, err := uc.BuildContext("u1")
	require.NoError(t, err)

	lines := strings.Split(mc.RecentTurns, "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "user: q1", lines[0])
	assert.Equal(t, "assistant: a4", lines[7])
	assert.NotContains(t, mc.RecentTurns, "proactive ping")
	assert.Contains(t, mc.LongTermSummary, "we talked about tea")
	assert.Equal(t, "- I like tea", mc.IdentityFacts)
}

func TestBuildContextPlaceholders(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) { return "", nil }}
	uc, _, _ := newTestUsecase(t, completion, nil)

	mc, err := uc.BuildContext("brand-new-user")
	require.NoError(t, err)
	assert.Equal(t, turnsPlaceholder, mc.RecentTurns)
	assert.Equal(t, summaryPlaceholder, mc.LongTermSummary)
	assert.Equal(t, factsPlaceholder, mc.IdentityFacts)
}

func TestFlushSummarizesAndKeepsUnseenProactive(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		if system == flushSummaryPrompt {
			return "user planned a hiking trip", nil
		}
		return "", nil
	}}
	uc, conversations, memories := newTestUsecase(t, completion, nil)

	require.NoError(t, conversations.Append("u1",
		domain.Message{Role: domain.RoleUser, Content: "let's plan a hike", CreatedAt: time.Now()},
		domain.Message{Role: domain.RoleAssistant, Content: "yes! saturday?", CreatedAt: time.Now()},
		domain.Message{Role: domain.RoleAssistant, Content: "seen ping", Proactive: true, Seen: true, CreatedAt: time.Now()},
		domain.Message{Role: domain.RoleAssistant, Content: "unseen ping", Proactive: true, CreatedAt: time.Now()},
	))

	require.NoError(t, uc.Flush(context.Background(), "u1"))

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Contains(t, mem.LongTermSummary, "user planned a hiking trip")

	conv, err := conversations.Get("u1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "unseen ping", conv.Messages[0].Content)
	assert.True(t, conv.Messages[0].Proactive)
}

func TestFlushWithOnlyProactiveMessages(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		t.Fatal("no summarization call expected")
		return "", nil
	}}
	uc, conversations, memories := newTestUsecase(t, completion, nil)

	require.NoError(t, conversations.Append("u1",
		domain.Message{Role: domain.RoleAssistant, Content: "seen ping", Proactive: true, Seen: true, CreatedAt: time.Now()},
		domain.Message{Role: domain.RoleAssistant, Content: "unseen ping", Proactive: true, CreatedAt: time.Now()},
	))

	require.NoError(t, uc.Flush(context.Background(), "u1"))

	conv, err := conversations.Get("u1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "unseen ping", conv.Messages[0].Content)

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Empty(t, mem.LongTermSummary)
}

func TestFlushFallsBackWhenSummarizerFails(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	uc, conversations, memories := newTestUsecase(t, completion, nil)

	require.NoError(t, conversations.Append("u1",
		domain.Message{Role: domain.RoleUser, Content: "hello", CreatedAt: time.Now()},
	))

	require.NoError(t, uc.Flush(context.Background(), "u1"))

	mem, err := memories.Get("u1")
	require.NoError(t, err)
	assert.Contains(t, mem.LongTermSummary, "Summary generation failed at")

	conv, err := conversations.Get("u1")
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
}

func TestFlushEmptyConversationIsNoop(t *testing.T) {
	completion := &stubCompletion{fn: func(system, user string) (string, error) {
		t.Fatal("no completion call expected")
		return "", nil
	}}
	uc, _, _ := newTestUsecase(t, completion, nil)

	require.NoError(t, uc.Flush(context.Background(), "u1"))
}
