package repository

import (
	"time"

	"aarvi-backend/internal/schedule/domain"
)

// ScheduledMessageRepository defines the interface for the durable queue of
// proactive messages.
type ScheduledMessageRepository interface {
	// Enqueue inserts a new pending message unless a live row with the same
	// (user_id, text) already exists, in which case it reports skipped=true
	// and inserts nothing. The check-then-insert is best effort; a race
	// between concurrent enqueues can still double-insert.
	Enqueue(msg *domain.ScheduledMessage) (skipped bool, err error)

	// FindDue returns messages whose send time has passed and that are
	// available for delivery: pending rows plus claimed rows whose claim
	// expired. Ordered by priority ascending (most urgent first), then send
	// time, capped at limit.
	FindDue(limit int, now time.Time) ([]*domain.ScheduledMessage, error)

	// Claim transitions an available row to claimed with a visibility
	// timeout and increments its attempt counter. Returns false when another
	// worker won the row.
	Claim(id string, until time.Time) (bool, error)

	// MarkSent is an idempotent terminal transition; a no-op on rows that
	// already reached a terminal state.
	MarkSent(id string) error

	// Cancel is an idempotent terminal transition; a no-op on rows that
	// already reached a terminal state.
	Cancel(id string) error

	// MarkFailed retires a row that exhausted its delivery attempts.
	MarkFailed(id string) error

	// FindByUserID lists a user's scheduled messages, newest first.
	FindByUserID(userID string, limit int) ([]*domain.ScheduledMessage, error)

	// FindByID returns a row or (nil, nil) when absent.
	FindByID(id string) (*domain.ScheduledMessage, error)
}
