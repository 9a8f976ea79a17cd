package domain

import "time"

// DeviceSubscription is one registered delivery endpoint for a user. A user
// can hold any number of them (one per device); the fan-out removes a
// subscription automatically when the push gateway reports it gone.
type DeviceSubscription struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Token      string    `json:"token" gorm:"uniqueIndex;not null"`
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
