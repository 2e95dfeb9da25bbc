package admin

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// CreateUserRequest represents the request body for creating a warden account
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin warden"`
}

// UpdateUserRequest represents the request body for editing an account
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin warden"`
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	role := c.Query("role", "")

	query := h.db.Model(&model.User{}).Where("role IN ?", []string{"admin", "warden"})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var users []model.User
	if err := query.Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, pagination)
}

// CreateUser handles POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing model.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return response.Conflict(c, "A user with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "warden"
	}

	user := model.User{
		Email:        email,
		Name:         validation.SanitizeString(req.Name),
		PasswordHash: hash,
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, user)
}

// UpdateUser handles PUT /api/v1/admin/users/:id. A password change bumps
// the token version, invalidating the account's outstanding tokens.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = validation.SanitizeString(req.Name)
	}
	if req.Role != "" && req.Role != user.Role {
		if current, ok := middleware.GetUser(c); ok && current != nil && current.ID == user.ID {
			return response.BadRequest(c, "You cannot change your own role")
		}
		updates["role"] = req.Role
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return response.InternalServerError(c, "Failed to hash password")
		}
		updates["password_hash"] = hash
		updates["token_version"] = user.TokenVersion + 1
	}

	if len(updates) == 0 {
		return response.BadRequest(c, "No changes provided")
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.SuccessWithMessage(c, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id. Self-deletion is
// rejected so an admin cannot lock themselves out.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if current, ok := middleware.GetUser(c); ok && current != nil && current.ID == user.ID {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}
