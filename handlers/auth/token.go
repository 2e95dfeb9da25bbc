package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"github.com/hosteldesk/hostel-api/utils/response"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries a fresh access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		if err == auth.ErrExpiredToken {
			return response.Unauthorized(c, "Refresh token has expired")
		}
		return response.Unauthorized(c, "Invalid refresh token")
	}

	if claims.TokenType != "refresh" {
		return response.Unauthorized(c, "Invalid token type")
	}

	// Check if refresh token was revoked
	isRevoked, err := h.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return response.Unauthorized(c, "Refresh token has been revoked")
	}

	// Verify the token version still matches
	var user model.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return response.Unauthorized(c, "User not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	return response.Success(c, RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   24 * 60 * 60,
	})
}

// LogoutRequest optionally carries the refresh token to revoke alongside
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout handles POST /api/v1/auth/logout. Revokes the presented access
// token and, when supplied, the refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok {
		return response.Unauthorized(c, "Token not found")
	}

	// Revoke the access token until it would have expired
	authHeader := c.Get("Authorization")
	tokenString := authHeader[len("Bearer "):]
	expiry, err := h.jwtManager.GetTokenExpiry(tokenString)
	if err != nil {
		return response.InternalServerError(c, "Failed to read token expiry")
	}

	if err := h.blacklistService.RevokeToken(c.Context(), jti, userID, expiry, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	var req LogoutRequest
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		if claims, err := h.jwtManager.ValidateToken(req.RefreshToken); err == nil && claims.TokenType == "refresh" {
			h.blacklistService.RevokeToken(c.Context(), claims.ID, userID, claims.ExpiresAt.Time, "logout")
		}
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
