package menu

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services/storage"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MenuHandler handles weekly mess menu requests
type MenuHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	spaces    *storage.SpacesClient
}

// NewMenuHandler creates a new menu handler. spaces may be nil when object
// storage is not configured; image endpoints then report an error.
func NewMenuHandler(db *gorm.DB, spaces *storage.SpacesClient) *MenuHandler {
	return &MenuHandler{
		db:        db,
		validator: validation.NewValidator(),
		spaces:    spaces,
	}
}

// UpsertMenuRequest represents the request body for setting a meal slot
type UpsertMenuRequest struct {
	Day      string   `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	MealType string   `json:"meal_type" validate:"required,oneof=breakfast lunch snacks dinner"`
	Items    []string `json:"items" validate:"required,min=1,dive,min=1,max=255"`
}

// GetWeeklyMenu handles GET /api/v1/menu. Returns every slot grouped by day.
func (h *MenuHandler) GetWeeklyMenu(c *fiber.Ctx) error {
	var menus []model.Menu
	if err := h.db.Order("day ASC, meal_type ASC").Find(&menus).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch menu")
	}

	grouped := make(map[string][]model.Menu)
	for _, m := range menus {
		grouped[m.Day] = append(grouped[m.Day], m)
	}

	return response.Success(c, grouped)
}

// GetDayMenu handles GET /api/v1/menu/:day
func (h *MenuHandler) GetDayMenu(c *fiber.Ctx) error {
	day := strings.ToLower(c.Params("day"))

	var menus []model.Menu
	if err := h.db.Where("day = ?", day).
		Order("meal_type ASC").
		Find(&menus).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch menu")
	}

	if len(menus) == 0 {
		return response.NotFound(c, "No menu found for this day")
	}

	return response.Success(c, menus)
}

// UpsertMenu handles PUT /api/v1/menu. Each (day, meal_type) pair has at most
// one row; posting the same pair again replaces its items.
func (h *MenuHandler) UpsertMenu(c *fiber.Ctx) error {
	var req UpsertMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	items := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, validation.SanitizeString(item))
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return response.InternalServerError(c, "Failed to encode menu items")
	}

	day := strings.ToLower(req.Day)
	mealType := model.MealType(req.MealType)

	var menu model.Menu
	err = h.db.Where("day = ? AND meal_type = ?", day, mealType).First(&menu).Error
	switch {
	case err == nil:
		menu.Items = datatypes.JSON(itemsJSON)
		if err := h.db.Save(&menu).Error; err != nil {
			return response.InternalServerError(c, "Failed to update menu")
		}
		return response.SuccessWithMessage(c, "Menu updated successfully", menu)
	case err == gorm.ErrRecordNotFound:
		menu = model.Menu{
			Day:      day,
			MealType: mealType,
			Items:    datatypes.JSON(itemsJSON),
		}
		if err := h.db.Create(&menu).Error; err != nil {
			return response.InternalServerError(c, "Failed to create menu")
		}
		return response.Created(c, menu)
	default:
		return response.InternalServerError(c, "Failed to fetch menu")
	}
}

// DeleteMenu handles DELETE /api/v1/menu/:id
func (h *MenuHandler) DeleteMenu(c *fiber.Ctx) error {
	id := c.Params("id")

	var menu model.Menu
	if err := h.db.First(&menu, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Menu not found")
		}
		return response.InternalServerError(c, "Failed to fetch menu")
	}

	if menu.ImageURL != "" && h.spaces != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
		defer cancel()
		h.spaces.DeleteByURL(ctx, menu.ImageURL)
	}

	if err := h.db.Delete(&menu).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete menu")
	}

	return response.SuccessWithMessage(c, "Menu deleted successfully", nil)
}

// UploadMenuImage handles POST /api/v1/menu/:id/image
func (h *MenuHandler) UploadMenuImage(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var menu model.Menu
	if err := h.db.First(&menu, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Menu not found")
		}
		return response.InternalServerError(c, "Failed to fetch menu")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Missing image upload")
	}

	if !storage.IsImage(fileHeader.Filename) {
		return response.BadRequest(c, "Only image files are supported")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	key := storage.GenerateKey("menus", fileHeader.Filename)
	url, err := h.spaces.UploadFile(ctx, key, file, storage.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload image")
	}

	oldURL := menu.ImageURL
	if err := h.db.Model(&menu).Update("image_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save image URL")
	}

	if oldURL != "" {
		h.spaces.DeleteByURL(ctx, oldURL)
	}

	return response.SuccessWithMessage(c, "Image uploaded successfully", fiber.Map{"image_url": url})
}

// DeleteMenuImage handles DELETE /api/v1/menu/:id/image
func (h *MenuHandler) DeleteMenuImage(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var menu model.Menu
	if err := h.db.First(&menu, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Menu not found")
		}
		return response.InternalServerError(c, "Failed to fetch menu")
	}

	if menu.ImageURL == "" {
		return response.BadRequest(c, "Menu has no image")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	if err := h.spaces.DeleteByURL(ctx, menu.ImageURL); err != nil {
		return response.InternalServerError(c, "Failed to delete image")
	}

	if err := h.db.Model(&menu).Update("image_url", "").Error; err != nil {
		return response.InternalServerError(c, "Failed to clear image URL")
	}

	return response.SuccessWithMessage(c, "Image deleted successfully", nil)
}
