package services

import (
	"fmt"
	"strings"

	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/crypto"
	"gorm.io/gorm"
)

// CredentialService generates and stores temporary logins for approved
// residents. Passwords are encrypted at rest; the plaintext lives only in
// the delivery SMS/email.
type CredentialService struct {
	box *crypto.Box
}

// NewCredentialService creates a new credential service
func NewCredentialService(secret string) (*CredentialService, error) {
	box, err := crypto.NewBox(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential encryption: %w", err)
	}
	return &CredentialService{box: box}, nil
}

// GeneratedCredential carries the plaintext pair back to the caller for
// delivery. It is never persisted in this form.
type GeneratedCredential struct {
	Username string
	Password string
}

// CreateForStudent generates a login for a newly admitted student and stores
// the encrypted record inside the caller's transaction.
func (s *CredentialService) CreateForStudent(tx *gorm.DB, student *model.Student) (*GeneratedCredential, error) {
	username := strings.ToLower(student.RollNumber)

	password, err := auth.GeneratePassword(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	encrypted, err := s.box.EncryptString(password)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt password: %w", err)
	}

	cred := model.TempCredential{
		StudentID:         student.ID,
		RollNumber:        student.RollNumber,
		Username:          username,
		EncryptedPassword: encrypted,
	}
	if err := tx.Create(&cred).Error; err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	return &GeneratedCredential{Username: username, Password: password}, nil
}

// MarkDelivered flags a credential as delivered after the SMS/email went out
func (s *CredentialService) MarkDelivered(db *gorm.DB, studentID uint) error {
	return db.Model(&model.TempCredential{}).
		Where("student_id = ?", studentID).
		Update("delivered", true).Error
}

// Decrypt recovers the plaintext password for redelivery
func (s *CredentialService) Decrypt(cred *model.TempCredential) (string, error) {
	return s.box.DecryptString(cred.EncryptedPassword)
}
