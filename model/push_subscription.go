package model

import (
	"time"

	"gorm.io/gorm"
)

// PushSubscription is one browser push endpoint registered from the frontend
type PushSubscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Endpoint string `gorm:"uniqueIndex;not null;type:text" json:"endpoint"`
	P256dh   string `gorm:"not null;type:text" json:"p256dh"`
	Auth     string `gorm:"not null;type:text" json:"auth"`
	// Optional owner; anonymous subscriptions are allowed
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
}
