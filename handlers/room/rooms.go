package room

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// RoomHandler handles room inventory requests
type RoomHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	occupancy *services.OccupancyService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(db *gorm.DB) *RoomHandler {
	return &RoomHandler{
		db:        db,
		validator: validation.NewValidator(),
		occupancy: services.NewOccupancyService(db),
	}
}

// CreateRoomRequest represents the request body for adding a room
type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	Gender     string `json:"gender" validate:"required"`
	Category   string `json:"category" validate:"required,max=50"`
	BedCount   int    `json:"bed_count" validate:"required,gte=1,lte=20"`
	Floor      int    `json:"floor" validate:"omitempty,gte=0"`
}

// UpdateRoomRequest represents the request body for editing a room
type UpdateRoomRequest struct {
	BedCount *int `json:"bed_count" validate:"omitempty,gte=1,lte=20"`
	Floor    *int `json:"floor" validate:"omitempty,gte=0"`
}

// ListRooms handles GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	gender := c.Query("gender", "")
	category := c.Query("category", "")

	query := h.db.Model(&model.Room{})

	if gender != "" {
		query = query.Where("gender = ?", validation.NormalizeGender(gender))
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count rooms")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var rooms []model.Room
	if err := query.Order("room_number ASC").
		Limit(limit).
		Offset(offset).
		Find(&rooms).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch rooms")
	}

	return response.Paginated(c, rooms, pagination)
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	id := c.Params("id")

	var room model.Room
	if err := h.db.First(&room, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Room not found")
		}
		return response.InternalServerError(c, "Failed to fetch room")
	}

	return response.Success(c, room)
}

// GetRoomAvailability handles GET /api/v1/rooms/availability. The room is
// identified by its (number, gender, category) tuple via query params.
func (h *RoomHandler) GetRoomAvailability(c *fiber.Ctx) error {
	roomNumber := c.Query("room_number", "")
	gender := c.Query("gender", "")
	category := c.Query("category", "")

	if roomNumber == "" || gender == "" {
		return response.BadRequest(c, "room_number and gender are required")
	}

	result, err := h.occupancy.CheckRoom(roomNumber, validation.NormalizeGender(gender), category)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			return response.NotFound(c, "Room not found")
		}
		return response.InternalServerError(c, "Failed to check room availability")
	}

	return response.Success(c, result)
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	gender := validation.NormalizeGender(req.Gender)

	var existing model.Room
	if err := h.db.Where("room_number = ? AND gender = ? AND category = ?",
		req.RoomNumber, gender, req.Category).First(&existing).Error; err == nil {
		return response.Conflict(c, "A room with this number, gender and category already exists")
	}

	room := model.Room{
		RoomNumber: req.RoomNumber,
		Gender:     gender,
		Category:   req.Category,
		BedCount:   req.BedCount,
		Floor:      req.Floor,
	}

	if err := h.db.Create(&room).Error; err != nil {
		return response.InternalServerError(c, "Failed to create room")
	}

	return response.Created(c, room)
}

// UpdateRoom handles PUT /api/v1/rooms/:id. The (number, gender, category)
// identity is immutable; only capacity and floor can change. Shrinking below
// the current occupant count is rejected.
func (h *RoomHandler) UpdateRoom(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var room model.Room
	if err := h.db.First(&room, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Room not found")
		}
		return response.InternalServerError(c, "Failed to fetch room")
	}

	if req.BedCount != nil && *req.BedCount != room.BedCount {
		result, err := h.occupancy.CheckRoom(room.RoomNumber, room.Gender, room.Category)
		if err != nil {
			return response.InternalServerError(c, "Failed to check room occupancy")
		}
		if int64(*req.BedCount) < result.TotalOccupants {
			return response.BadRequest(c, "Bed count cannot be lower than the current occupant count")
		}
		room.BedCount = *req.BedCount
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}

	if err := h.db.Save(&room).Error; err != nil {
		return response.InternalServerError(c, "Failed to update room")
	}

	return response.SuccessWithMessage(c, "Room updated successfully", room)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id. Rooms with active occupants
// cannot be removed.
func (h *RoomHandler) DeleteRoom(c *fiber.Ctx) error {
	id := c.Params("id")

	var room model.Room
	if err := h.db.First(&room, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Room not found")
		}
		return response.InternalServerError(c, "Failed to fetch room")
	}

	result, err := h.occupancy.CheckRoom(room.RoomNumber, room.Gender, room.Category)
	if err != nil && !errors.Is(err, services.ErrRoomNotFound) {
		return response.InternalServerError(c, "Failed to check room occupancy")
	}
	if result != nil && result.TotalOccupants > 0 {
		return response.BadRequest(c, "Room has active occupants and cannot be deleted")
	}

	if err := h.db.Delete(&room).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete room")
	}

	return response.SuccessWithMessage(c, "Room deleted successfully", nil)
}
