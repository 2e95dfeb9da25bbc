package staff

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/services/storage"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// StaffHandler handles staff and guest occupant requests
type StaffHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	occupancy *services.OccupancyService
	settings  *services.SettingsService
	spaces    *storage.SpacesClient
}

// NewStaffHandler creates a new staff handler. spaces may be nil when object
// storage is not configured; photo endpoints then report an error.
func NewStaffHandler(db *gorm.DB, settings *services.SettingsService, spaces *storage.SpacesClient) *StaffHandler {
	return &StaffHandler{
		db:        db,
		validator: validation.NewValidator(),
		occupancy: services.NewOccupancyService(db),
		settings:  settings,
		spaces:    spaces,
	}
}

// CreateStaffRequest represents the request body for adding a staff or guest
type CreateStaffRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	Phone         string   `json:"phone" validate:"required,phone"`
	Type          string   `json:"type" validate:"omitempty,oneof=staff guest"`
	Gender        string   `json:"gender" validate:"required"`
	RoomNumber    string   `json:"room_number" validate:"omitempty,max=20"`
	BedNumber     string   `json:"bed_number" validate:"omitempty,max=10"`
	StayType      string   `json:"stay_type" validate:"omitempty,oneof=daily monthly"`
	CheckInDate   string   `json:"check_in_date" validate:"omitempty"`
	CheckOutDate  string   `json:"check_out_date" validate:"omitempty"`
	DailyRate     *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
	SelectedMonth string   `json:"selected_month" validate:"omitempty,month"`
}

// UpdateStaffRequest represents the request body for editing a staff/guest
type UpdateStaffRequest struct {
	Name          string   `json:"name" validate:"omitempty,min=2,max=255"`
	Phone         string   `json:"phone" validate:"omitempty,phone"`
	Type          string   `json:"type" validate:"omitempty,oneof=staff guest"`
	RoomNumber    *string  `json:"room_number" validate:"omitempty"`
	BedNumber     *string  `json:"bed_number" validate:"omitempty"`
	StayType      string   `json:"stay_type" validate:"omitempty,oneof=daily monthly"`
	CheckInDate   *string  `json:"check_in_date" validate:"omitempty"`
	CheckOutDate  *string  `json:"check_out_date" validate:"omitempty"`
	DailyRate     *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
	SelectedMonth *string  `json:"selected_month" validate:"omitempty"`
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, errors.New("invalid date: expected YYYY-MM-DD")
	}
	return &t, nil
}

// ListStaff handles GET /api/v1/staff. Lapsed monthly records are expired
// before the listing so clients never see stale occupants.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	if _, err := services.ExpireLapsedMonthly(h.db, time.Now()); err != nil {
		return response.InternalServerError(c, "Failed to refresh staff records")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")
	occupantType := c.Query("type", "")
	stayType := c.Query("stay_type", "")
	active := c.Query("active", "true")

	query := h.db.Model(&model.StaffGuest{})

	switch active {
	case "false":
		query = query.Where("is_active = ?", false)
	case "all":
	default:
		query = query.Where("is_active = ?", true)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR hostel_id ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if occupantType != "" {
		query = query.Where("type = ?", occupantType)
	}

	if stayType != "" {
		query = query.Where("stay_type = ?", stayType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count staff")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var staff []model.StaffGuest
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch staff")
	}

	return response.Paginated(c, staff, pagination)
}

// GetStaff handles GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	return response.Success(c, staff)
}

// CreateStaff handles POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	gender := validation.NormalizeGender(req.Gender)

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	occupantType := model.StaffGuestType(req.Type)
	if occupantType == "" {
		occupantType = model.OccupantTypeStaff
	}

	stayType := model.StayType(req.StayType)
	if stayType == "" {
		stayType = model.StayTypeDaily
	}
	if stayType == model.StayTypeMonthly && req.SelectedMonth == "" {
		req.SelectedMonth = time.Now().Format("2006-01")
	}

	var existing model.StaffGuest
	if err := h.db.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		return response.Conflict(c, "A staff record with this phone number already exists")
	}

	// Staff rooms have no category; the lookup matches on number and gender
	if req.RoomNumber != "" {
		if _, err := h.occupancy.EnsureRoomHasSpace(req.RoomNumber, gender, ""); err != nil {
			return h.occupancyError(c, err)
		}
		if err := h.occupancy.CheckBed(req.RoomNumber, req.BedNumber, services.OccupantRef{}); err != nil {
			if errors.Is(err, services.ErrBedTaken) {
				return response.Conflict(c, "This bed is already occupied")
			}
			return response.InternalServerError(c, "Failed to check bed availability")
		}
	}

	defaultRate, err := h.settings.GetDefaultDailyRate()
	if err != nil {
		return response.InternalServerError(c, "Failed to read default daily rate")
	}

	var staff model.StaffGuest
	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		hostelID, err := services.AllocateHostelID(tx, gender, now)
		if err != nil {
			return err
		}

		staff = model.StaffGuest{
			Name:          req.Name,
			Phone:         req.Phone,
			Type:          occupantType,
			Gender:        gender,
			HostelID:      hostelID,
			RoomNumber:    req.RoomNumber,
			BedNumber:     req.BedNumber,
			StayType:      stayType,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			DailyRate:     req.DailyRate,
			SelectedMonth: req.SelectedMonth,
			IsActive:      true,
		}

		staff.CalculatedCharges = services.CalculateCharges(services.ChargeInput{
			StayType:      staff.StayType,
			CheckInDate:   staff.CheckInDate,
			CheckOutDate:  staff.CheckOutDate,
			DailyRate:     staff.DailyRate,
			SelectedMonth: staff.SelectedMonth,
		}, defaultRate, now)

		return tx.Create(&staff).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create staff record")
	}

	return response.Created(c, staff)
}

// UpdateStaff handles PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	if req.Name != "" {
		staff.Name = validation.SanitizeString(req.Name)
	}
	if req.Type != "" {
		staff.Type = model.StaffGuestType(req.Type)
	}

	if req.Phone != "" && req.Phone != staff.Phone {
		var existing model.StaffGuest
		if err := h.db.Where("phone = ? AND id != ?", req.Phone, staff.ID).
			First(&existing).Error; err == nil {
			return response.Conflict(c, "A staff record with this phone number already exists")
		}
		staff.Phone = req.Phone
	}

	billingChanged := false

	if req.StayType != "" && model.StayType(req.StayType) != staff.StayType {
		staff.StayType = model.StayType(req.StayType)
		billingChanged = true
	}
	if req.CheckInDate != nil {
		t, err := parseDate(*req.CheckInDate)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		staff.CheckInDate = t
		billingChanged = true
	}
	if req.CheckOutDate != nil {
		t, err := parseDate(*req.CheckOutDate)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		staff.CheckOutDate = t
		billingChanged = true
	}
	if req.DailyRate != nil {
		staff.DailyRate = req.DailyRate
		billingChanged = true
	}
	if req.SelectedMonth != nil {
		if *req.SelectedMonth != "" && !validation.IsValidMonth(*req.SelectedMonth) {
			return response.BadRequest(c, "Invalid month: expected YYYY-MM")
		}
		staff.SelectedMonth = *req.SelectedMonth
		billingChanged = true
	}

	newRoom := staff.RoomNumber
	if req.RoomNumber != nil {
		newRoom = *req.RoomNumber
	}
	newBed := staff.BedNumber
	if req.BedNumber != nil {
		newBed = *req.BedNumber
	}

	if newRoom != staff.RoomNumber || newBed != staff.BedNumber {
		if newRoom != "" {
			if newRoom != staff.RoomNumber {
				if _, err := h.occupancy.EnsureRoomHasSpace(newRoom, staff.Gender, ""); err != nil {
					return h.occupancyError(c, err)
				}
			}
			if err := h.occupancy.CheckBed(newRoom, newBed, services.OccupantRef{StaffID: staff.ID}); err != nil {
				if errors.Is(err, services.ErrBedTaken) {
					return response.Conflict(c, "This bed is already occupied")
				}
				return response.InternalServerError(c, "Failed to check bed availability")
			}
		}
		staff.RoomNumber = newRoom
		staff.BedNumber = newBed
	}

	if billingChanged {
		defaultRate, err := h.settings.GetDefaultDailyRate()
		if err != nil {
			return response.InternalServerError(c, "Failed to read default daily rate")
		}
		staff.CalculatedCharges = services.CalculateCharges(services.ChargeInput{
			StayType:      staff.StayType,
			CheckInDate:   staff.CheckInDate,
			CheckOutDate:  staff.CheckOutDate,
			DailyRate:     staff.DailyRate,
			SelectedMonth: staff.SelectedMonth,
		}, defaultRate, time.Now())
	}

	if err := h.db.Save(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to update staff record")
	}

	return response.SuccessWithMessage(c, "Staff record updated successfully", staff)
}

// DeleteStaff handles DELETE /api/v1/staff/:id (soft delete)
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	if !staff.IsActive {
		return response.BadRequest(c, "Staff record is already inactive")
	}

	if err := h.db.Model(&staff).Update("is_active", false).Error; err != nil {
		return response.InternalServerError(c, "Failed to deactivate staff record")
	}

	return response.SuccessWithMessage(c, "Staff record deactivated successfully", nil)
}

// ReactivateStaff handles POST /api/v1/staff/:id/reactivate
func (h *StaffHandler) ReactivateStaff(c *fiber.Ctx) error {
	id := c.Params("id")

	var staff model.StaffGuest
	if err := h.db.First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	if staff.IsActive {
		return response.BadRequest(c, "Staff record is already active")
	}

	if staff.RoomNumber != "" {
		if _, err := h.occupancy.EnsureRoomHasSpace(staff.RoomNumber, staff.Gender, ""); err != nil {
			return h.occupancyError(c, err)
		}
		if err := h.occupancy.CheckBed(staff.RoomNumber, staff.BedNumber, services.OccupantRef{StaffID: staff.ID}); err != nil {
			if errors.Is(err, services.ErrBedTaken) {
				return response.Conflict(c, "The previously assigned bed is now occupied")
			}
			return response.InternalServerError(c, "Failed to check bed availability")
		}
	}

	if err := h.db.Model(&staff).Update("is_active", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to reactivate staff record")
	}

	staff.IsActive = true
	return response.SuccessWithMessage(c, "Staff record reactivated successfully", staff)
}

func (h *StaffHandler) occupancyError(c *fiber.Ctx, err error) error {
	var full *services.RoomFullError
	if errors.Is(err, services.ErrRoomNotFound) {
		return response.NotFound(c, "Room not found")
	}
	if errors.As(err, &full) {
		return response.BadRequest(c, full.Error())
	}
	return response.InternalServerError(c, "Failed to check room availability")
}
