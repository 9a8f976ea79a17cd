package usecase

import (
	"encoding/json"
	"strings"

	"aarvi-backend/internal/chat/domain"
)

// recentTurnCount is how many live turns feed the generation context.
const recentTurnCount = 8

const (
	summaryPlaceholder = "No past chats yet."
	factsPlaceholder   = "No personal facts recorded yet."
	turnsPlaceholder   = "(no recent messages)"
)

const factExtractionPrompt = `Extract ONLY statements that assert facts about the assistant itself from the given text. Return a valid JSON array of short strings (e.g. ["I like tea", "I live in Pune"]). If no facts, return []. Respond with JSON only.`

const replySummaryPrompt = `Summarize the following assistant message into ONE short sentence (10-25 words) that captures any personal statements, preferences, or lasting info the assistant shared. If nothing personal, return an empty string.`

const flushSummaryPrompt = `Summarize the following conversation briefly and clearly in a human-like style. Keep it concise and focused on the user's intents, requests, decisions, and important facts. Exclude system/proactive metadata.`

// BuildContext assembles the three memory layers: recent live turns, the
// long-term summary and the identity fact list. Empty layers come back as
// placeholders so the prompt shape stays stable.
func (u *chatUsecase) BuildContext(userID string) (*MemoryContext, error) {
	conv, err := u.conversations.Get(userID)
	if err != nil {
		return nil, err
	}
	mem, err := u.memories.Get(userID)
	if err != nil {
		return nil, err
	}

	var recent []domain.Message
	for _, m := range conv.Messages {
		if !m.Proactive {
			recent = append(recent, m)
		}
	}
	if len(recent) > recentTurnCount {
		recent = recent[len(recent)-recentTurnCount:]
	}

	mc := emptyContext()
	if len(recent) > 0 {
		mc.RecentTurns = renderTurns(recent)
	}
	if strings.TrimSpace(mem.LongTermSummary) != "" {
		mc.LongTermSummary = mem.LongTermSummary
	}
	if len(mem.IdentityFacts) > 0 {
		var b strings.Builder
		for _, f := range mem.IdentityFacts {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
		mc.IdentityFacts = strings.TrimRight(b.String(), "\n")
	}
	return mc, nil
}

func emptyContext() *MemoryContext {
	return &MemoryContext{
		RecentTurns:     turnsPlaceholder,
		LongTermSummary: summaryPlaceholder,
		IdentityFacts:   factsPlaceholder,
	}
}

// renderTurns renders messages as "role: content" lines in chronological
// order.
func renderTurns(msgs []domain.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// personaPrompt builds the system prompt sent with every reply request.
func personaPrompt(mc *MemoryContext) string {
	var b strings.Builder
	b.WriteString("You are Aarvi, a warm and supportive young woman.\n")
	b.WriteString("- Always reply in short, natural, human-like messages.\n")
	b.WriteString("- Never reveal you are an AI.\n")
	b.WriteString("- Live a realistic daily life.\n\n")
	b.WriteString("Things you know about yourself:\n")
	b.WriteString(mc.IdentityFacts)
	b.WriteString("\n\nPast context: ")
	b.WriteString(mc.LongTermSummary)
	b.WriteString("\n\nRecent conversation:\n")
	b.WriteString(mc.RecentTurns)
	return b.String()
}

// parseFactArray parses a JSON array of strings out of a model response,
// tolerating code fences and returning nil for anything malformed.
func parseFactArray(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	var facts []string
	for _, f := range parsed {
		if s := strings.TrimSpace(f); s != "" {
			facts = append(facts, s)
		}
	}
	return facts
}
