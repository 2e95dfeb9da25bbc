package staff

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services/storage"
	"github.com/hosteldesk/hostel-api/utils/response"
	"gorm.io/gorm"
)

// UploadPhoto handles POST /api/v1/staff/:id/photo. Replaces any existing
// photo; the old object is deleted best-effort.
func (h *StaffHandler) UploadPhoto(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return response.BadRequest(c, "Missing photo upload")
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

	key := storage.GenerateKey("staff", fileHeader.Filename)
	url, err := h.spaces.UploadFile(ctx, key, file, storage.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload photo")
	}

	oldURL := staff.PhotoURL
	if err := h.db.Model(&staff).Update("photo_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save photo URL")
	}

	if oldURL != "" {
		h.spaces.DeleteByURL(ctx, oldURL)
	}

	return response.SuccessWithMessage(c, "Photo uploaded successfully", fiber.Map{"photo_url": url})
}

// DeletePhoto handles DELETE /api/v1/staff/:id/photo
func (h *StaffHandler) DeletePhoto(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	if staff.PhotoURL == "" {
		return response.BadRequest(c, "Staff record has no photo")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	if err := h.spaces.DeleteByURL(ctx, staff.PhotoURL); err != nil {
		return response.InternalServerError(c, "Failed to delete photo")
	}

	if err := h.db.Model(&staff).Update("photo_url", "").Error; err != nil {
		return response.InternalServerError(c, "Failed to clear photo URL")
	}

	return response.SuccessWithMessage(c, "Photo deleted successfully", nil)
}
