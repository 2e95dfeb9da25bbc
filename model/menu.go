package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealType identifies one of the daily mess servings
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

// Menu is one meal slot of the weekly mess menu
type Menu struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Day is the lowercase weekday name ("monday" .. "sunday")
	Day      string         `gorm:"not null;type:varchar(10);uniqueIndex:idx_menu_day_meal" json:"day"`
	MealType MealType       `gorm:"not null;type:varchar(10);uniqueIndex:idx_menu_day_meal" json:"meal_type"`
	Items    datatypes.JSON `gorm:"type:jsonb" json:"items"`
	ImageURL string         `gorm:"type:text" json:"image_url,omitempty"`
}
