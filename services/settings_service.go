package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FallbackDailyRate is only used when the default_daily_rate setting row is
// missing entirely (fresh database before seeding).
const FallbackDailyRate = 150.0

// SettingsService reads and writes persisted application settings
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new settings service
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the raw value of a setting key
func (s *SettingsService) Get(key string) (string, error) {
	var setting model.AppSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set upserts a setting value
func (s *SettingsService) Set(key, value, valueType, description string) error {
	setting := model.AppSetting{
		Key:         key,
		Value:       value,
		Type:        valueType,
		Description: description,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(&setting).Error
}

// GetDefaultDailyRate returns the persisted default daily rate. A missing
// row falls back to FallbackDailyRate so charge math never divides by a
// half-configured system.
func (s *SettingsService) GetDefaultDailyRate() (float64, error) {
	value, err := s.Get(model.SettingDefaultDailyRate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FallbackDailyRate, nil
		}
		return 0, fmt.Errorf("failed to read default daily rate: %w", err)
	}

	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("default daily rate %q is not numeric: %w", value, err)
	}
	return rate, nil
}

// SetDefaultDailyRate persists a new default daily rate
func (s *SettingsService) SetDefaultDailyRate(rate float64) error {
	if rate < 0 {
		return errors.New("daily rate cannot be negative")
	}
	return s.Set(model.SettingDefaultDailyRate,
		strconv.FormatFloat(rate, 'f', -1, 64), "float",
		"Default daily rate applied to occupants without a per-record override")
}
