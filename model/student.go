package model

import (
	"time"

	"gorm.io/gorm"
)

// StayType is the billing mode for an occupant
type StayType string

const (
	StayTypeDaily   StayType = "daily"
	StayTypeMonthly StayType = "monthly"
)

// Student represents a hostel resident admitted as a student
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string `gorm:"not null" json:"name"`
	RollNumber string `gorm:"uniqueIndex;not null" json:"roll_number"`
	// HostelID is assigned once at creation and never changes
	HostelID string `gorm:"uniqueIndex;not null" json:"hostel_id"`
	Degree   string `gorm:"type:varchar(100)" json:"degree"`
	Branch   string `gorm:"type:varchar(100)" json:"branch"`
	Year     int    `json:"year"`

	Gender       string `gorm:"type:varchar(10);not null" json:"gender"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	StudentPhone string `gorm:"type:varchar(20);index" json:"student_phone"`
	ParentPhone  string `gorm:"type:varchar(20)" json:"parent_phone"`
	PhotoURL     string `gorm:"type:text" json:"photo_url,omitempty"`

	RoomNumber string `gorm:"type:varchar(20);index" json:"room_number"`
	BedNumber  string `gorm:"type:varchar(10)" json:"bed_number"`
	Category   string `gorm:"type:varchar(50)" json:"category"`

	StayType          StayType   `gorm:"type:varchar(10);default:'monthly'" json:"stay_type"`
	CheckInDate       *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate      *time.Time `json:"check_out_date,omitempty"`
	DailyRate         *float64   `json:"daily_rate,omitempty"` // per-record override of the default rate
	SelectedMonth     string     `gorm:"type:varchar(7)" json:"selected_month,omitempty"`
	CalculatedCharges float64    `json:"calculated_charges"`

	// IsActive is the domain-level soft-delete flag; inactive records keep
	// their hostel ID and stay in the store.
	IsActive bool `gorm:"default:true;index" json:"is_active"`

	FeeStatus string `gorm:"type:varchar(20);default:'due'" json:"fee_status"`
}

// StudentResponse is the API shape for a student
type StudentResponse struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	RollNumber        string     `json:"roll_number"`
	HostelID          string     `json:"hostel_id"`
	Degree            string     `json:"degree"`
	Branch            string     `json:"branch"`
	Year              int        `json:"year"`
	Gender            string     `json:"gender"`
	Email             string     `json:"email"`
	StudentPhone      string     `json:"student_phone"`
	ParentPhone       string     `json:"parent_phone"`
	PhotoURL          string     `json:"photo_url,omitempty"`
	RoomNumber        string     `json:"room_number"`
	BedNumber         string     `json:"bed_number"`
	Category          string     `json:"category"`
	StayType          StayType   `json:"stay_type"`
	CheckInDate       *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate      *time.Time `json:"check_out_date,omitempty"`
	DailyRate         *float64   `json:"daily_rate,omitempty"`
	SelectedMonth     string     `json:"selected_month,omitempty"`
	CalculatedCharges float64    `json:"calculated_charges"`
	IsActive          bool       `json:"is_active"`
	FeeStatus         string     `json:"fee_status"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToResponse converts a Student to its API shape
func (s *Student) ToResponse() StudentResponse {
	return StudentResponse{
		ID:                s.ID,
		Name:              s.Name,
		RollNumber:        s.RollNumber,
		HostelID:          s.HostelID,
		Degree:            s.Degree,
		Branch:            s.Branch,
		Year:              s.Year,
		Gender:            s.Gender,
		Email:             s.Email,
		StudentPhone:      s.StudentPhone,
		ParentPhone:       s.ParentPhone,
		PhotoURL:          s.PhotoURL,
		RoomNumber:        s.RoomNumber,
		BedNumber:         s.BedNumber,
		Category:          s.Category,
		StayType:          s.StayType,
		CheckInDate:       s.CheckInDate,
		CheckOutDate:      s.CheckOutDate,
		DailyRate:         s.DailyRate,
		SelectedMonth:     s.SelectedMonth,
		CalculatedCharges: s.CalculatedCharges,
		IsActive:          s.IsActive,
		FeeStatus:         s.FeeStatus,
		CreatedAt:         s.CreatedAt,
	}
}
