package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// AdminHandler handles settings and warden account management
type AdminHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	settings  *services.SettingsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, settings *services.SettingsService) *AdminHandler {
	return &AdminHandler{
		db:        db,
		validator: validation.NewValidator(),
		settings:  settings,
	}
}

// UpdateRateRequest represents the request body for changing the default rate
type UpdateRateRequest struct {
	Rate float64 `json:"rate" validate:"gte=0"`
}

// GetSettings handles GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	rate, err := h.settings.GetDefaultDailyRate()
	if err != nil {
		return response.InternalServerError(c, "Failed to read settings")
	}

	return response.Success(c, fiber.Map{
		"default_daily_rate": rate,
	})
}

// UpdateDefaultDailyRate handles PUT /api/v1/admin/settings/daily-rate.
// Every active occupant's charges are recalculated against the new rate.
func (h *AdminHandler) UpdateDefaultDailyRate(c *fiber.Ctx) error {
	var req UpdateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.settings.SetDefaultDailyRate(req.Rate); err != nil {
		return response.BadRequest(c, err.Error())
	}

	updated, err := services.RecalculateAllCharges(h.db, req.Rate, time.Now())
	if err != nil {
		return response.InternalServerError(c, "Rate saved but charge recalculation failed")
	}

	return response.SuccessWithMessage(c, "Default daily rate updated", fiber.Map{
		"default_daily_rate": req.Rate,
		"records_updated":    updated,
	})
}
