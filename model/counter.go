package model

import "time"

// Counter hands out a strictly increasing integer sequence per key.
// Keys look like "hostel_BH25". Sequence values are never reused, even
// across concurrent allocations; the increment-and-fetch is a single
// atomic statement (see services.AllocateHostelID).
type Counter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null;type:varchar(50);column:key" json:"key"`
	Sequence  int64     `gorm:"not null;default:0" json:"sequence"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table so raw upsert SQL can reference it
func (Counter) TableName() string {
	return "counters"
}
