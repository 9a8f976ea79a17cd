package domain

import "time"

// Status represents the lifecycle state of a scheduled message
type Status string

const (
	StatusPending   Status = "pending"
	StatusClaimed   Status = "claimed"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Channel is the delivery channel of a scheduled message
type Channel string

const (
	ChannelInApp Channel = "inapp"
)

// CreatedBy values
const (
	CreatedByAI     = "ai"
	CreatedBySystem = "system"
)

// ScheduledMessage is a queued proactive message waiting for its send time.
type ScheduledMessage struct {
	ID           string            `json:"id" gorm:"primaryKey"`
	UserID       string            `json:"user_id" gorm:"index;not null"`
	CreatedBy    string            `json:"created_by" gorm:"default:ai"`
	TriggerEvent string            `json:"trigger_event"` // e.g. reminder, onboarding, followup, weekly_checkin
	Text         string            `json:"text" gorm:"not null"`
	SendAt       time.Time         `json:"send_at" gorm:"index"`
	Priority     int               `json:"priority" gorm:"default:5"` // lower = more urgent
	Urgent       bool              `json:"urgent"`
	Channel      Channel           `json:"channel" gorm:"default:inapp"`
	Status       Status            `json:"status" gorm:"index;default:pending"`
	Attempts     int               `json:"attempts" gorm:"default:0"`
	ClaimedUntil *time.Time        `json:"claimed_until,omitempty"` // visibility timeout while claimed
	Metadata     map[string]string `json:"metadata" gorm:"serializer:json"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Terminal reports whether the message reached a final state.
func (m *ScheduledMessage) Terminal() bool {
	return m.Status == StatusSent || m.Status == StatusCancelled || m.Status == StatusFailed
}
