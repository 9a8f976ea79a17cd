package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aarvi-backend/internal/push/domain"
)

// SubscriptionRepository defines the interface for device subscription operations
type SubscriptionRepository interface {
	Save(userID, token, deviceInfo string) error
	GetByUserID(userID string) ([]domain.DeviceSubscription, error)
	DeleteToken(token string) error
	DeleteTokens(tokens []string) error
	DeleteByUserID(userID string) error
}

// subscriptionRepository implements SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new instance of subscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

// Save saves or updates a device subscription for a user (atomic upsert)
func (r *subscriptionRepository) Save(userID, token, deviceInfo string) error {
	sub := &domain.DeviceSubscription{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Atomic upsert: INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(sub).Error
}

// GetByUserID returns all device subscriptions for a user
func (r *subscriptionRepository) GetByUserID(userID string) ([]domain.DeviceSubscription, error) {
	var subs []domain.DeviceSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteToken removes a specific subscription
func (r *subscriptionRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&domain.DeviceSubscription{}).Error
}

// DeleteTokens removes a batch of subscriptions in one statement
func (r *subscriptionRepository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Where("token IN ?", tokens).Delete(&domain.DeviceSubscription{}).Error
}

// DeleteByUserID removes all subscriptions for a user
func (r *subscriptionRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.DeviceSubscription{}).Error
}
