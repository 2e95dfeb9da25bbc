package model

import "time"

// TempCredential stores the generated login for an approved pre-registrant
// until it has been delivered. The password is AES-GCM encrypted at rest
// (see utils/crypto); the plaintext only exists in the delivery SMS/email.
type TempCredential struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StudentID  uint   `gorm:"index;not null" json:"student_id"`
	RollNumber string `gorm:"index;not null" json:"roll_number"`
	Username   string `gorm:"not null" json:"username"`
	// Base64(nonce || ciphertext) of the generated password
	EncryptedPassword string `gorm:"type:text;not null" json:"-"`
	Delivered         bool   `gorm:"default:false" json:"delivered"`

	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
