package model

import (
	"time"

	"gorm.io/gorm"
)

// FeeReminderStatus tracks whether a reminder has been dispatched
type FeeReminderStatus string

const (
	FeeReminderDraft FeeReminderStatus = "draft"
	FeeReminderSent  FeeReminderStatus = "sent"
)

// FeeReminder is an admin-authored notice emailed and pushed to residents.
// Delivery is fire-and-forget; the counters record the best-effort outcome.
type FeeReminder struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title   string    `gorm:"not null" json:"title"`
	Message string    `gorm:"type:text;not null" json:"message"`
	DueDate time.Time `gorm:"not null" json:"due_date"`
	// Audience: "all", "daily", "monthly"
	Audience string `gorm:"type:varchar(10);default:'all'" json:"audience"`

	Status       FeeReminderStatus `gorm:"type:varchar(10);default:'draft';index" json:"status"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	EmailsSent   int               `json:"emails_sent"`
	EmailsFailed int               `json:"emails_failed"`
}
