package domain

import "time"

// DeviceToken represents a device registration for push notifications.
// A token belongs to at most one user at a time; re-registering an existing
// token moves it rather than duplicating it.
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	Provider   string    `json:"provider"`                      // "fcm" or "webpush"
	DeviceInfo string    `json:"device_info"`                   // Browser/device metadata
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
