package model

import (
	"time"

	"gorm.io/gorm"
)

// Setting keys used by the handlers and charge calculator
const (
	SettingDefaultDailyRate = "default_daily_rate"
	SettingHostelName       = "hostel_name"
	SettingSMSEnabled       = "sms_enabled"
)

// AppSetting represents application-wide configuration settings persisted in
// the store. The default daily rate lives here so a restart cannot lose it
// and every reader sees the same value.
type AppSetting struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Key         string         `gorm:"uniqueIndex;not null" json:"key"`
	Value       string         `gorm:"type:text;not null" json:"value"`
	Type        string         `gorm:"type:varchar(20);default:'string'" json:"type"` // string, int, float, bool
	Description string         `gorm:"type:text" json:"description"`
	IsPublic    bool           `gorm:"default:false" json:"is_public"` // If true, can be accessed without auth
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for AppSetting
func (AppSetting) TableName() string {
	return "app_settings"
}
