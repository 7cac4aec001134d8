package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types are an open set: producers may emit new values at any
// time, and consumers normalize unknown ones to TypeInfo.
const (
	TypeProduct = "product"
	TypeReview  = "review"
	TypeCoupon  = "coupon"
	TypeMessage = "message"
	TypeInfo    = "info"
)

// NormalizeType maps an arbitrary event type onto the known set.
func NormalizeType(t string) string {
	switch t {
	case TypeProduct, TypeReview, TypeCoupon, TypeMessage, TypeInfo:
		return t
	default:
		return TypeInfo
	}
}

type Notification struct {
	ID        string            `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"index;not null" json:"user_id"`
	Type      string            `gorm:"not null" json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      datatypes.JSONMap `json:"data"` // carries at least "link" and "type"
	Read      bool              `gorm:"default:false" json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
