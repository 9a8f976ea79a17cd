package domain

import "time"

// UserMemory holds a user's long-term context. LongTermSummary only ever
// grows: each flush appends a timestamped block. IdentityFacts is an ordered
// set of short self-referential statements, deduplicated on insert by exact
// string match and never removed.
type UserMemory struct {
	UserID          string    `json:"user_id" gorm:"primaryKey"`
	LongTermSummary string    `json:"long_term_summary"`
	IdentityFacts   []string  `json:"identity_facts" gorm:"serializer:json"`
	UpdatedAt       time.Time `json:"updated_at"`
}
