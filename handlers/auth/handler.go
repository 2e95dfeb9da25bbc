package auth

import (
	"time"

	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *auth.JWTManager
	blacklistService     *auth.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	email                *services.EmailService
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager, blacklist *auth.BlacklistService, bruteForceProtection *middleware.BruteForceProtection, email *services.EmailService) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklistService:     blacklist,
		bruteForceProtection: bruteForceProtection,
		email:                email,
		validator:            validation.NewValidator(),
	}
}

// UserResponse is the public shape of a panel user
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
