package analyzer

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Urgency marks how soon a suggested message should go out
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyNormal    Urgency = "normal"
)

// Action is the analyzer's verdict on what to do with a message
type Action string

const (
	ActionSendNow  Action = "send_now"
	ActionSchedule Action = "schedule"
	ActionNone     Action = "no_action"
)

// Known intents
const (
	IntentChat             = "chat"
	IntentReminder         = "reminder"
	IntentEmotionalSupport = "emotional_support"
	IntentCompanionship    = "companionship"
	IntentRelaxSupport     = "relax_support"
	IntentEventSupport     = "event_support"
	IntentEntertainment    = "entertainment"
	IntentCelebration      = "celebration"
)

// DefaultPriority is used when mood and urgency give no better signal
// (mid-scale on 1-10, 1 highest).
const DefaultPriority = 5

// Result is the analyzer output for a single user message.
type Result struct {
	Mood             string     `json:"mood"`
	Urgency          Urgency    `json:"urgency"`
	Intent           string     `json:"intent"`
	SuggestedMessage string     `json:"suggested_message"`
	SuggestedTime    time.Time  `json:"suggested_time"`
	Priority         int        `json:"priority"`
	Action           Action     `json:"action"`
	FollowupTime     *time.Time `json:"followup_time,omitempty"`
}

// Analyzer classifies a user message and resolves natural-language time
// expressions to absolute timestamps. It performs no I/O; an external
// classification response can be fed in through AnalyzeClassified.
type Analyzer struct {
	parser *when.Parser
}

// New creates an Analyzer with english + common time rules.
func New() *Analyzer {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Analyzer{parser: w}
}

// Analyze classifies text with local lexical heuristics and resolves any
// time expression relative to now.
func (a *Analyzer) Analyze(text string, now time.Time) Result {
	return a.resolve(classify(text), text, now)
}

// AnalyzeClassified resolves an external classifier response (duck-typed
// JSON) for the given text. Unparseable output degrades to intent "chat"
// with no action; it never fails.
func (a *Analyzer) AnalyzeClassified(raw, text string, now time.Time) Result {
	cl := ParseClassification(raw)
	if !cl.Valid {
		return Result{
			Mood:          "neutral",
			Urgency:       UrgencyNormal,
			Intent:        IntentChat,
			SuggestedTime: now,
			Priority:      DefaultPriority,
			Action:        ActionNone,
		}
	}
	return a.resolve(cl, text, now)
}

// classify runs the lexical mood/intent heuristics over the message.
func classify(text string) Classification {
	lower := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	cl := Classification{
		Mood:    "neutral",
		Urgency: UrgencyNormal,
		Intent:  IntentChat,
		Action:  ActionNone,
		Valid:   true,
	}

	switch {
	case has("sad", "cry", "depressed"):
		cl.Mood = "sad"
		cl.Urgency = UrgencyImmediate
		cl.Intent = IntentEmotionalSupport
		cl.SuggestedMessage = "I'm here for you 🤗"
		cl.Action = ActionSendNow
	case has("lonely", "alone"):
		cl.Mood = "lonely"
		cl.Urgency = UrgencyImmediate
		cl.Intent = IntentCompanionship
		cl.SuggestedMessage = "You're not alone, I'm here with you 💜"
		cl.Action = ActionSendNow
	case has("stress", "tense", "pressure"):
		cl.Mood = "stressed"
		cl.Urgency = UrgencyImmediate
		cl.Intent = IntentRelaxSupport
		cl.SuggestedMessage = "Take a deep breath… you've got this 🌿"
		cl.Action = ActionSendNow
	case has("interview", "exam", "test"):
		cl.Mood = "nervous"
		cl.Intent = IntentEventSupport
		cl.SuggestedMessage = "Good luck, you'll do great 💪"
		cl.Action = ActionSchedule
	case has("bored", "boring"):
		cl.Mood = "bored"
		cl.Intent = IntentEntertainment
		cl.SuggestedMessage = "Let's play a game or try something fun 🎮"
		cl.Action = ActionSendNow
	case has("happy", "party", "birthday", "celebration"):
		cl.Mood = "happy"
		cl.Intent = IntentCelebration
		cl.SuggestedMessage = "That's amazing! 🎉"
		cl.Action = ActionSendNow
	}

	return cl
}

// resolve turns a classification into a final result, filling in absolute
// timestamps and priority.
func (a *Analyzer) resolve(cl Classification, text string, now time.Time) Result {
	r := Result{
		Mood:             cl.Mood,
		Urgency:          cl.Urgency,
		Intent:           cl.Intent,
		SuggestedMessage: cl.SuggestedMessage,
		SuggestedTime:    now,
		Action:           cl.Action,
	}

	// Event support without an explicit time lands tomorrow morning.
	if cl.Action == ActionSchedule {
		if cl.SuggestedTime != nil {
			r.SuggestedTime = *cl.SuggestedTime
		} else {
			r.SuggestedTime = tomorrowMorning(now)
		}
	}

	// Resolve a natural time expression from the full message; a hit always
	// wins over the classification's own guess. This doubles as the fallback
	// when the classifier extracted no usable time.
	if cl.Action == ActionNone || cl.Action == ActionSchedule {
		if t, ok := a.parseTime(text, now); ok {
			r.SuggestedTime = t
			r.Action = ActionSchedule
			if r.Intent == IntentChat {
				r.Intent = IntentReminder
			}
			if r.SuggestedMessage == "" {
				r.SuggestedMessage = "Okay, I'll remind you 👍"
			}
			if r.Urgency == UrgencyNormal {
				followup := t.Add(time.Hour)
				r.FollowupTime = &followup
			}
		}
	}

	r.Priority = computePriority(r.Mood, r.Urgency)
	return r
}

// parseTime resolves a natural-language time expression to an absolute
// timestamp with a forward-looking policy: ambiguous expressions resolve to
// the next future occurrence relative to now, never a past date.
func (a *Analyzer) parseTime(text string, now time.Time) (time.Time, bool) {
	res, err := a.parser.Parse(text, now)
	if err != nil || res == nil {
		return time.Time{}, false
	}

	t := res.Time
	for !t.After(now) {
		t = t.Add(24 * time.Hour)
	}
	return t, true
}

func tomorrowMorning(now time.Time) time.Time {
	tomorrow := now.Add(24 * time.Hour)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, now.Location())
}

// computePriority maps mood and urgency to a 1-10 priority, lower = more
// urgent. Immediate urgency biases one step higher.
func computePriority(mood string, urgency Urgency) int {
	base := DefaultPriority
	switch mood {
	case "sad":
		base = 1
	case "lonely":
		base = 2
	case "stressed":
		base = 2
	case "nervous":
		base = 3
	case "bored":
		base = 4
	case "happy":
		base = 5
	}
	if urgency == UrgencyImmediate {
		base--
	}
	if base < 1 {
		base = 1
	}
	return base
}
