package student

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services/storage"
	"github.com/hosteldesk/hostel-api/utils/response"
	"gorm.io/gorm"
)

// ImportStudents handles POST /api/v1/students/import. Accepts an .xlsx
// upload and returns added/skipped counts with per-row errors.
func (h *StudentHandler) ImportStudents(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing file upload")
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		return response.BadRequest(c, "Only .xlsx files are supported")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	result, err := h.importer.ImportXLSX(file)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.SuccessWithMessage(c,
		fmt.Sprintf("Added: %d, Skipped: %d", result.Added, result.Skipped), result)
}

// UploadPhoto handles POST /api/v1/students/:id/photo. Replaces any
// existing photo; the old object is deleted best-effort.
func (h *StudentHandler) UploadPhoto(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
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

	key := storage.GenerateKey("students", fileHeader.Filename)
	url, err := h.spaces.UploadFile(ctx, key, file, storage.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload photo")
	}

	oldURL := student.PhotoURL
	if err := h.db.Model(&student).Update("photo_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save photo URL")
	}

	if oldURL != "" {
		h.spaces.DeleteByURL(ctx, oldURL)
	}

	return response.SuccessWithMessage(c, "Photo uploaded successfully", fiber.Map{"photo_url": url})
}

// DeletePhoto handles DELETE /api/v1/students/:id/photo
func (h *StudentHandler) DeletePhoto(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if student.PhotoURL == "" {
		return response.BadRequest(c, "Student has no photo")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	if err := h.spaces.DeleteByURL(ctx, student.PhotoURL); err != nil {
		return response.InternalServerError(c, "Failed to delete photo")
	}

	if err := h.db.Model(&student).Update("photo_url", "").Error; err != nil {
		return response.InternalServerError(c, "Failed to clear photo URL")
	}

	return response.SuccessWithMessage(c, "Photo deleted successfully", nil)
}
