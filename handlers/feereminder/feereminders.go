package feereminder

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// FeeReminderHandler handles fee reminder authoring and dispatch
type FeeReminderHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	reminders *services.FeeReminderService
}

// NewFeeReminderHandler creates a new fee reminder handler
func NewFeeReminderHandler(db *gorm.DB, reminders *services.FeeReminderService) *FeeReminderHandler {
	return &FeeReminderHandler{
		db:        db,
		validator: validation.NewValidator(),
		reminders: reminders,
	}
}

// CreateFeeReminderRequest represents the request body for drafting a reminder
type CreateFeeReminderRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Message  string `json:"message" validate:"required,min=3"`
	DueDate  string `json:"due_date" validate:"required"`
	Audience string `json:"audience" validate:"omitempty,oneof=all daily monthly"`
}

// UpdateFeeReminderRequest represents the request body for editing a draft
type UpdateFeeReminderRequest struct {
	Title    string `json:"title" validate:"omitempty,min=3,max=255"`
	Message  string `json:"message" validate:"omitempty,min=3"`
	DueDate  string `json:"due_date" validate:"omitempty"`
	Audience string `json:"audience" validate:"omitempty,oneof=all daily monthly"`
}

func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("invalid due date: expected YYYY-MM-DD")
	}
	return t, nil
}

// ListFeeReminders handles GET /api/v1/fee-reminders
func (h *FeeReminderHandler) ListFeeReminders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	status := c.Query("status", "")

	query := h.db.Model(&model.FeeReminder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count fee reminders")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var reminders []model.FeeReminder
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reminders).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch fee reminders")
	}

	return response.Paginated(c, reminders, pagination)
}

// GetFeeReminder handles GET /api/v1/fee-reminders/:id
func (h *FeeReminderHandler) GetFeeReminder(c *fiber.Ctx) error {
	id := c.Params("id")

	var reminder model.FeeReminder
	if err := h.db.First(&reminder, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fee reminder not found")
		}
		return response.InternalServerError(c, "Failed to fetch fee reminder")
	}

	return response.Success(c, reminder)
}

// CreateFeeReminder handles POST /api/v1/fee-reminders
func (h *FeeReminderHandler) CreateFeeReminder(c *fiber.Ctx) error {
	var req CreateFeeReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	audience := req.Audience
	if audience == "" {
		audience = "all"
	}

	reminder := model.FeeReminder{
		Title:    validation.SanitizeString(req.Title),
		Message:  req.Message,
		DueDate:  dueDate,
		Audience: audience,
		Status:   model.FeeReminderDraft,
	}

	if err := h.db.Create(&reminder).Error; err != nil {
		return response.InternalServerError(c, "Failed to create fee reminder")
	}

	return response.Created(c, reminder)
}

// UpdateFeeReminder handles PUT /api/v1/fee-reminders/:id. Sent reminders
// are immutable.
func (h *FeeReminderHandler) UpdateFeeReminder(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateFeeReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var reminder model.FeeReminder
	if err := h.db.First(&reminder, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fee reminder not found")
		}
		return response.InternalServerError(c, "Failed to fetch fee reminder")
	}

	if reminder.Status == model.FeeReminderSent {
		return response.BadRequest(c, "Sent reminders cannot be edited")
	}

	if req.Title != "" {
		reminder.Title = validation.SanitizeString(req.Title)
	}
	if req.Message != "" {
		reminder.Message = req.Message
	}
	if req.DueDate != "" {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		reminder.DueDate = dueDate
	}
	if req.Audience != "" {
		reminder.Audience = req.Audience
	}

	if err := h.db.Save(&reminder).Error; err != nil {
		return response.InternalServerError(c, "Failed to update fee reminder")
	}

	return response.SuccessWithMessage(c, "Fee reminder updated successfully", reminder)
}

// DeleteFeeReminder handles DELETE /api/v1/fee-reminders/:id
func (h *FeeReminderHandler) DeleteFeeReminder(c *fiber.Ctx) error {
	id := c.Params("id")

	var reminder model.FeeReminder
	if err := h.db.First(&reminder, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fee reminder not found")
		}
		return response.InternalServerError(c, "Failed to fetch fee reminder")
	}

	if err := h.db.Delete(&reminder).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete fee reminder")
	}

	return response.SuccessWithMessage(c, "Fee reminder deleted successfully", nil)
}

// SendFeeReminder handles POST /api/v1/fee-reminders/:id/send. Dispatch is
// synchronous so the caller sees the delivery counters in the response.
func (h *FeeReminderHandler) SendFeeReminder(c *fiber.Ctx) error {
	id := c.Params("id")

	var reminder model.FeeReminder
	if err := h.db.First(&reminder, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fee reminder not found")
		}
		return response.InternalServerError(c, "Failed to fetch fee reminder")
	}

	if err := h.reminders.Send(c.Context(), &reminder); err != nil {
		if errors.Is(err, services.ErrAlreadySent) {
			return response.BadRequest(c, "Reminder has already been sent")
		}
		return response.InternalServerError(c, "Failed to send fee reminder")
	}

	return response.SuccessWithMessage(c, "Fee reminder sent successfully", reminder)
}
