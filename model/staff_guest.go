package model

import (
	"time"

	"gorm.io/gorm"
)

// StaffGuestType distinguishes hostel employees from paying guests
type StaffGuestType string

const (
	OccupantTypeStaff StaffGuestType = "staff"
	OccupantTypeGuest StaffGuestType = "guest"
)

// StaffGuest represents a staff member or guest occupying a hostel bed
type StaffGuest struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string         `gorm:"not null" json:"name"`
	Phone    string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"phone"`
	Type     StaffGuestType `gorm:"type:varchar(10);default:'staff'" json:"type"`
	Gender   string         `gorm:"type:varchar(10);not null" json:"gender"`
	HostelID string         `gorm:"uniqueIndex;not null" json:"hostel_id"`
	PhotoURL string         `gorm:"type:text" json:"photo_url,omitempty"`

	RoomNumber string `gorm:"type:varchar(20);index" json:"room_number"`
	BedNumber  string `gorm:"type:varchar(10)" json:"bed_number"`

	StayType          StayType   `gorm:"type:varchar(10);default:'daily'" json:"stay_type"`
	CheckInDate       *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate      *time.Time `json:"check_out_date,omitempty"`
	DailyRate         *float64   `json:"daily_rate,omitempty"`
	SelectedMonth     string     `gorm:"type:varchar(7)" json:"selected_month,omitempty"`
	CalculatedCharges float64    `json:"calculated_charges"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}
