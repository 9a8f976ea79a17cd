package domain

import "time"

// Role of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one element of a user's append-only conversation log.
// Proactive marks messages injected by the delivery worker rather than
// produced as a live reply; Seen stays false until the user's client
// observes the message.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Proactive bool      `json:"proactive,omitempty"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the per-user message log. Version backs the optimistic
// concurrency check on append/replace so uncoordinated writers cannot
// silently drop each other's messages.
type Conversation struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	Messages  []Message `json:"messages" gorm:"serializer:json"`
	Version   int64     `json:"version" gorm:"default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
