package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aarvi-backend/internal/schedule/domain"
)

// gormScheduledMessageRepository implements ScheduledMessageRepository using GORM
type gormScheduledMessageRepository struct {
	db *gorm.DB
}

// NewGormScheduledMessageRepository creates a new GORM-based ScheduledMessageRepository
func NewGormScheduledMessageRepository(db *gorm.DB) ScheduledMessageRepository {
	return &gormScheduledMessageRepository{db: db}
}

// liveStatuses are the non-terminal states a row can occupy.
var liveStatuses = []domain.Status{domain.StatusPending, domain.StatusClaimed}

func (r *gormScheduledMessageRepository) Enqueue(msg *domain.ScheduledMessage) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ScheduledMessage{}).
		Where("user_id = ? AND text = ? AND status IN ?", msg.UserID, msg.Text, liveStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Status == "" {
		msg.Status = domain.StatusPending
	}
	if msg.Channel == "" {
		msg.Channel = domain.ChannelInApp
	}
	if msg.Priority == 0 {
		msg.Priority = 5
	}
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()

	return false, r.db.Create(msg).Error
}

func (r *gormScheduledMessageRepository) FindDue(limit int, now time.Time) ([]*domain.ScheduledMessage, error) {
	var msgs []*domain.ScheduledMessage
	err := r.db.
		Where("send_at <= ? AND (status = ? OR (status = ? AND claimed_until <= ?))",
			now, domain.StatusPending, domain.StatusClaimed, now).
		Order("priority ASC, send_at ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *gormScheduledMessageRepository) Claim(id string, until time.Time) (bool, error) {
	now := time.Now()
	res := r.db.Model(&domain.ScheduledMessage{}).
		Where("id = ? AND (status = ? OR (status = ? AND claimed_until <= ?))",
			id, domain.StatusPending, domain.StatusClaimed, now).
		Updates(map[string]interface{}{
			"status":        domain.StatusClaimed,
			"claimed_until": until,
			"attempts":      gorm.Expr("attempts + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormScheduledMessageRepository) MarkSent(id string) error {
	now := time.Now()
	return r.db.Model(&domain.ScheduledMessage{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(map[string]interface{}{
			"status":     domain.StatusSent,
			"sent_at":    now,
			"updated_at": now,
		}).Error
}

func (r *gormScheduledMessageRepository) Cancel(id string) error {
	return r.db.Model(&domain.ScheduledMessage{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(map[string]interface{}{
			"status":     domain.StatusCancelled,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormScheduledMessageRepository) MarkFailed(id string) error {
	return r.db.Model(&domain.ScheduledMessage{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(map[string]interface{}{
			"status":     domain.StatusFailed,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormScheduledMessageRepository) FindByUserID(userID string, limit int) ([]*domain.ScheduledMessage, error) {
	var msgs []*domain.ScheduledMessage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *gormScheduledMessageRepository) FindByID(id string) (*domain.ScheduledMessage, error) {
	var msg domain.ScheduledMessage
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}
