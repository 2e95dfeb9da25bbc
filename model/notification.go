package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategoryPreRegistration NotificationCategory = "pre_registration"
	NotificationCategoryFeeReminder     NotificationCategory = "fee_reminder"
	NotificationCategoryImport          NotificationCategory = "student_import"
	NotificationCategoryExpiry          NotificationCategory = "monthly_expiry"
	NotificationCategoryGeneral         NotificationCategory = "general"
)

// UserNotification is an in-app notification shown on the admin dashboard
type UserNotification struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	DeletedAt gorm.DeletedAt       `gorm:"index" json:"deleted_at,omitempty"`
	UserID    uint                 `gorm:"index;not null" json:"user_id"`
	Type      NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category  NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title     string               `gorm:"type:varchar(255);not null" json:"title"`
	Message   string               `gorm:"type:text" json:"message"`
	Read      bool                 `gorm:"default:false" json:"read"`
	Metadata  datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationMetadata carries the common context fields serialized to jsonb
type NotificationMetadata struct {
	RollNumber   string `json:"roll_number,omitempty"`
	HostelID     string `json:"hostel_id,omitempty"`
	RoomNumber   string `json:"room_number,omitempty"`
	AddedCount   int    `json:"added_count,omitempty"`
	SkippedCount int    `json:"skipped_count,omitempty"`
	ExpiredCount int    `json:"expired_count,omitempty"`
	ReminderID   uint   `json:"reminder_id,omitempty"`
}
