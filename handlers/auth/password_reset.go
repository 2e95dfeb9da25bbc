package auth

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/response"
	"gorm.io/gorm"
)

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

const resetTokenTTL = time.Hour

// ForgotPassword handles POST /api/v1/auth/forgot-password. The response is
// identical whether or not the email matches an account.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	sentMessage := "If the email exists, a password reset link will be sent"

	var user model.User
	err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.SuccessWithMessage(c, sentMessage, nil)
		}
		return response.InternalServerError(c, "Failed to process request")
	}

	resetToken := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.db.Create(&resetToken).Error; err != nil {
		return response.InternalServerError(c, "Failed to create reset token")
	}

	go func() {
		if err := h.email.SendPasswordResetEmail(user.Email, resetToken.Token, user.Name); err != nil {
			log.Printf("Failed to send password reset email to user %d: %v", user.ID, err)
		}
	}()

	return response.SuccessWithMessage(c, sentMessage, nil)
}

// ResetPassword handles POST /api/v1/auth/reset-password. Consuming a token
// also invalidates every outstanding session of the account.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var resetToken model.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&resetToken).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}
	if resetToken.IsExpired() || resetToken.IsUsed() {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			return response.BadRequest(c, "Password must be at least 8 characters")
		}
		return response.InternalServerError(c, "Failed to hash password")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", resetToken.UserID).Updates(map[string]interface{}{
			"password_hash": hash,
			"token_version": gorm.Expr("token_version + 1"),
		}).Error; err != nil {
			return err
		}

		resetToken.MarkAsUsed()
		return tx.Save(&resetToken).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to reset password")
	}

	return response.SuccessWithMessage(c, "Password has been reset. Please log in with your new password.", nil)
}
