package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"aarvi-backend/internal/chat/domain"
)

// ConversationRepository owns the per-user conversation log. All mutation
// goes through explicit append/replace operations guarded by an optimistic
// version check, so the three uncoordinated writers (live chat, delivery
// worker, session flush) cannot overwrite each other's messages.
type ConversationRepository interface {
	// Get returns the user's conversation; an empty one when none is stored yet.
	Get(userID string) (*domain.Conversation, error)

	// Append adds messages to the end of the log.
	Append(userID string, msgs ...domain.Message) error

	// Replace swaps the stored log for the given messages (used by the
	// session flush to retain only unseen proactive messages).
	Replace(userID string, msgs []domain.Message) error

	// MarkProactiveSeen flips the seen flag on delivered proactive messages.
	MarkProactiveSeen(userID string) error
}

const maxVersionRetries = 3

// ErrConcurrentUpdate is returned when the optimistic version check kept
// failing across retries.
var ErrConcurrentUpdate = errors.New("conversation modified concurrently")

type gormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GORM-based ConversationRepository
func NewGormConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Get(userID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("user_id = ?", userID).First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domain.Conversation{UserID: userID}, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *gormConversationRepository) Append(userID string, msgs ...domain.Message) error {
	return r.mutate(userID, func(existing []domain.Message) []domain.Message {
		return append(existing, msgs...)
	})
}

func (r *gormConversationRepository) Replace(userID string, msgs []domain.Message) error {
	return r.mutate(userID, func([]domain.Message) []domain.Message {
		return msgs
	})
}

func (r *gormConversationRepository) MarkProactiveSeen(userID string) error {
	return r.mutate(userID, func(existing []domain.Message) []domain.Message {
		for i := range existing {
			if existing[i].Proactive {
				existing[i].Seen = true
			}
		}
		return existing
	})
}

// mutate applies fn to the stored message list under an optimistic version
// check, retrying a bounded number of times on conflict.
func (r *gormConversationRepository) mutate(userID string, fn func([]domain.Message) []domain.Message) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var conv domain.Conversation
		err := r.db.Where("user_id = ?", userID).First(&conv).Error
		if err == gorm.ErrRecordNotFound {
			conv = domain.Conversation{
				UserID:    userID,
				Messages:  fn(nil),
				Version:   1,
				UpdatedAt: time.Now(),
			}
			if createErr := r.db.Create(&conv).Error; createErr == nil {
				return nil
			}
			// Another writer created the row first; reload and retry.
			continue
		}
		if err != nil {
			return err
		}

		updated := fn(conv.Messages)
		res := r.db.Model(&domain.Conversation{}).
			Where("user_id = ? AND version = ?", userID, conv.Version).
			Select("messages", "version", "updated_at").
			Updates(domain.Conversation{
				Messages:  updated,
				Version:   conv.Version + 1,
				UpdatedAt: time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}
	return fmt.Errorf("update conversation for user %s: %w", userID, ErrConcurrentUpdate)
}
