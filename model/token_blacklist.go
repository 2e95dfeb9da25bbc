package model

import (
	"time"

	"gorm.io/gorm"
)

// JWTTokenBlacklist holds revoked token IDs. Rows are only needed until the
// token's own expiry; the weekly cleanup job purges the rest.
type JWTTokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JTI       string         `gorm:"uniqueIndex;not null;type:varchar(64)" json:"jti"`
	UserID    uint           `gorm:"index" json:"user_id"`
	Reason    string         `gorm:"type:varchar(100)" json:"reason"` // logout, password_reset
	ExpiresAt time.Time      `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}

// IsExpired reports whether the blacklist row itself can be purged
func (b *JWTTokenBlacklist) IsExpired() bool {
	return time.Now().After(b.ExpiresAt)
}
