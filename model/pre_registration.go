package model

import (
	"time"

	"gorm.io/gorm"
)

// PreRegistrationStatus is the lifecycle state of a pending application
type PreRegistrationStatus string

const (
	PreRegStatusPending  PreRegistrationStatus = "pending"
	PreRegStatusApproved PreRegistrationStatus = "approved"
	PreRegStatusRejected PreRegistrationStatus = "rejected"
)

// PreRegistration is a provisional applicant record awaiting admin review.
// On approval it is converted into a Student and deleted; on rejection it is
// kept with a reason.
type PreRegistration struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"`
	RollNumber   string `gorm:"uniqueIndex;not null" json:"roll_number"`
	Degree       string `gorm:"type:varchar(100)" json:"degree"`
	Branch       string `gorm:"type:varchar(100)" json:"branch"`
	Year         int    `json:"year"`
	Gender       string `gorm:"type:varchar(10);not null" json:"gender"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	StudentPhone string `gorm:"type:varchar(20)" json:"student_phone"`
	ParentPhone  string `gorm:"type:varchar(20)" json:"parent_phone"`

	PreferredRoomType string `gorm:"type:varchar(50)" json:"preferred_room_type,omitempty"`

	Status          PreRegistrationStatus `gorm:"type:varchar(10);default:'pending';index" json:"status"`
	RejectionReason string                `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedBy      *uint                 `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time            `json:"reviewed_at,omitempty"`
}
