package analyzer

import (
	"encoding/json"
	"strings"
	"time"
)

// Classification is the tagged form of a classifier response. External
// classifiers answer with free-form JSON; rather than probing fields ad hoc,
// the response is normalized into this struct with an explicit invalid case
// (Valid == false) for unparseable output.
type Classification struct {
	Mood             string
	Urgency          Urgency
	Intent           string
	SuggestedMessage string
	SuggestedTime    *time.Time
	Action           Action
	Valid            bool
}

// classifierPayload mirrors the JSON shape an external classifier is asked
// to produce.
type classifierPayload struct {
	Mood             string `json:"mood"`
	Urgency          string `json:"urgency"`
	Intent           string `json:"intent"`
	SuggestedMessage string `json:"suggested_message"`
	SuggestedTime    string `json:"suggested_time"`
	Action           string `json:"action"`
}

// ParseClassification parses a raw classifier response. Anything that is not
// a JSON object with a usable intent comes back with Valid == false; callers
// then degrade to plain chat instead of erroring.
func ParseClassification(raw string) Classification {
	raw = strings.TrimSpace(raw)
	// Models occasionally wrap JSON in a code fence.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var p classifierPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Classification{}
	}
	if p.Intent == "" {
		return Classification{}
	}

	cl := Classification{
		Mood:             p.Mood,
		Urgency:          UrgencyNormal,
		Intent:           p.Intent,
		SuggestedMessage: p.SuggestedMessage,
		Action:           ActionNone,
		Valid:            true,
	}
	if cl.Mood == "" {
		cl.Mood = "neutral"
	}
	if p.Urgency == string(UrgencyImmediate) {
		cl.Urgency = UrgencyImmediate
	}
	switch Action(p.Action) {
	case ActionSendNow, ActionSchedule:
		cl.Action = Action(p.Action)
	}
	if p.SuggestedTime != "" {
		if t, err := time.Parse(time.RFC3339, p.SuggestedTime); err == nil {
			cl.SuggestedTime = &t
		}
	}
	return cl
}
