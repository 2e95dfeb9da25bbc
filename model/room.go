package model

import (
	"time"

	"gorm.io/gorm"
)

// Room represents a physical hostel room with a fixed bed capacity
type Room struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomNumber string `gorm:"not null;type:varchar(20);uniqueIndex:idx_room_gender_category" json:"room_number"`
	Gender     string `gorm:"not null;type:varchar(10);uniqueIndex:idx_room_gender_category" json:"gender"`
	Category   string `gorm:"not null;type:varchar(50);uniqueIndex:idx_room_gender_category" json:"category"`
	BedCount   int    `gorm:"not null" json:"bed_count"`
	Floor      int    `json:"floor"`
}
