package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base is a Tuesday morning.
var base = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

func TestAnalyzeRelativeTimeExpression(t *testing.T) {
	a := New()

	res := a.Analyze("remind me in 1 hour to drink water", base)

	assert.Equal(t, ActionSchedule, res.Action)
	assert.Equal(t, IntentReminder, res.Intent)
	assert.WithinDuration(t, base.Add(time.Hour), res.SuggestedTime, time.Minute)
	assert.Equal(t, "Okay, I'll remind you 👍", res.SuggestedMessage)
	assert.Equal(t, DefaultPriority, res.Priority)

	require.NotNil(t, res.FollowupTime)
	assert.WithinDuration(t, res.SuggestedTime.Add(time.Hour), *res.FollowupTime, time.Minute)
}

func TestAnalyzeWeekdayResolvesForward(t *testing.T) {
	a := New()

	// Evaluated on a Tuesday, "monday" must resolve to the next Monday,
	// never a past date.
	res := a.Analyze("remind me on monday", base)

	assert.Equal(t, ActionSchedule, res.Action)
	assert.Equal(t, time.Monday, res.SuggestedTime.Weekday())
	assert.True(t, res.SuggestedTime.After(base), "resolved time %s is not in the future of %s", res.SuggestedTime, base)
}

func TestAnalyzeMoodCues(t *testing.T) {
	a := New()

	res := a.Analyze("I feel so sad today", base)

	assert.Equal(t, "sad", res.Mood)
	assert.Equal(t, UrgencyImmediate, res.Urgency)
	assert.Equal(t, IntentEmotionalSupport, res.Intent)
	assert.Equal(t, ActionSendNow, res.Action)
	assert.Equal(t, 1, res.Priority)
	assert.NotEmpty(t, res.SuggestedMessage)
}

func TestAnalyzeEventSupportDefaultsToTomorrowMorning(t *testing.T) {
	a := New()

	res := a.Analyze("I have a big exam coming up", base)

	assert.Equal(t, IntentEventSupport, res.Intent)
	assert.Equal(t, ActionSchedule, res.Action)
	assert.Equal(t, 9, res.SuggestedTime.Hour())
	assert.True(t, res.SuggestedTime.After(base))
	assert.Equal(t, 3, res.Priority)
}

func TestAnalyzeEventSupportWithExplicitTime(t *testing.T) {
	a := New()

	// A time expression in the raw message wins over the tomorrow-morning
	// default.
	res := a.Analyze("my exam is on friday", base)

	assert.Equal(t, IntentEventSupport, res.Intent)
	assert.Equal(t, ActionSchedule, res.Action)
	assert.Equal(t, time.Friday, res.SuggestedTime.Weekday())
	assert.True(t, res.SuggestedTime.After(base))
}

func TestAnalyzePlainChat(t *testing.T) {
	a := New()

	res := a.Analyze("hello, how was your day?", base)

	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, IntentChat, res.Intent)
	assert.Equal(t, "neutral", res.Mood)
	assert.Equal(t, DefaultPriority, res.Priority)
	assert.Nil(t, res.FollowupTime)
}

func TestAnalyzeClassifiedInvalidJSON(t *testing.T) {
	a := New()

	for _, raw := range []string{"", "not json at all", "{broken", "[]", `{"mood":"sad"}`} {
		res := a.AnalyzeClassified(raw, "whatever", base)

		assert.Equal(t, IntentChat, res.Intent, "raw=%q", raw)
		assert.Equal(t, ActionNone, res.Action, "raw=%q", raw)
		assert.Equal(t, DefaultPriority, res.Priority, "raw=%q", raw)
	}
}

func TestAnalyzeClassifiedValidResponse(t *testing.T) {
	a := New()

	raw := `{"mood":"lonely","urgency":"immediate","intent":"companionship","suggested_message":"thinking of you","action":"send_now"}`
	res := a.AnalyzeClassified(raw, "i miss having people around", base)

	assert.Equal(t, "lonely", res.Mood)
	assert.Equal(t, UrgencyImmediate, res.Urgency)
	assert.Equal(t, IntentCompanionship, res.Intent)
	assert.Equal(t, ActionSendNow, res.Action)
	assert.Equal(t, 1, res.Priority)
}

func TestAnalyzeClassifiedCodeFence(t *testing.T) {
	a := New()

	raw := "```json\n{\"mood\":\"bored\",\"intent\":\"entertainment\",\"action\":\"send_now\"}\n```"
	res := a.AnalyzeClassified(raw, "so bored", base)

	assert.Equal(t, IntentEntertainment, res.Intent)
	assert.Equal(t, ActionSendNow, res.Action)
}

func TestComputePriority(t *testing.T) {
	assert.Equal(t, 1, computePriority("sad", UrgencyNormal))
	assert.Equal(t, 1, computePriority("sad", UrgencyImmediate)) // floor at 1
	assert.Equal(t, 1, computePriority("lonely", UrgencyImmediate))
	assert.Equal(t, 2, computePriority("stressed", UrgencyNormal))
	assert.Equal(t, 4, computePriority("bored", UrgencyNormal))
	assert.Equal(t, 5, computePriority("neutral", UrgencyNormal))
	assert.Equal(t, 4, computePriority("neutral", UrgencyImmediate))
}
