package student

import (
	"context"
	"errors"
	"fmt"
	"log"
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

// StudentHandler handles student CRUD and import requests
type StudentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	occupancy *services.OccupancyService
	settings  *services.SettingsService
	spaces    *storage.SpacesClient
	sms       *services.SMSClient
	importer  *services.StudentImportService
}

// NewStudentHandler creates a new student handler. spaces and sms may be nil
// when the respective integration is not configured.
func NewStudentHandler(db *gorm.DB, settings *services.SettingsService, spaces *storage.SpacesClient, sms *services.SMSClient) *StudentHandler {
	return &StudentHandler{
		db:        db,
		validator: validation.NewValidator(),
		occupancy: services.NewOccupancyService(db),
		settings:  settings,
		spaces:    spaces,
		sms:       sms,
		importer:  services.NewStudentImportService(db, settings),
	}
}

// CreateStudentRequest represents the request body for admitting a student
type CreateStudentRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	RollNumber    string   `json:"roll_number" validate:"required,min=2,max=50"`
	Degree        string   `json:"degree" validate:"omitempty,max=100"`
	Branch        string   `json:"branch" validate:"omitempty,max=100"`
	Year          int      `json:"year" validate:"omitempty,min=1,max=10"`
	Gender        string   `json:"gender" validate:"required"`
	Email         string   `json:"email" validate:"omitempty,email"`
	StudentPhone  string   `json:"student_phone" validate:"omitempty,phone"`
	ParentPhone   string   `json:"parent_phone" validate:"omitempty,phone"`
	RoomNumber    string   `json:"room_number" validate:"omitempty,max=20"`
	BedNumber     string   `json:"bed_number" validate:"omitempty,max=10"`
	Category      string   `json:"category" validate:"omitempty,max=50"`
	StayType      string   `json:"stay_type" validate:"omitempty,oneof=daily monthly"`
	CheckInDate   string   `json:"check_in_date" validate:"omitempty"`
	CheckOutDate  string   `json:"check_out_date" validate:"omitempty"`
	DailyRate     *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
	SelectedMonth string   `json:"selected_month" validate:"omitempty,month"`
}

// UpdateStudentRequest represents the request body for editing a student.
// Roll number and hostel ID are immutable.
type UpdateStudentRequest struct {
	Name          string   `json:"name" validate:"omitempty,min=2,max=255"`
	Degree        string   `json:"degree" validate:"omitempty,max=100"`
	Branch        string   `json:"branch" validate:"omitempty,max=100"`
	Year          *int     `json:"year" validate:"omitempty,min=1,max=10"`
	Email         string   `json:"email" validate:"omitempty,email"`
	StudentPhone  string   `json:"student_phone" validate:"omitempty,phone"`
	ParentPhone   string   `json:"parent_phone" validate:"omitempty,phone"`
	RoomNumber    *string  `json:"room_number" validate:"omitempty"`
	BedNumber     *string  `json:"bed_number" validate:"omitempty"`
	Category      *string  `json:"category" validate:"omitempty"`
	StayType      string   `json:"stay_type" validate:"omitempty,oneof=daily monthly"`
	CheckInDate   *string  `json:"check_in_date" validate:"omitempty"`
	CheckOutDate  *string  `json:"check_out_date" validate:"omitempty"`
	DailyRate     *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
	SelectedMonth *string  `json:"selected_month" validate:"omitempty"`
	FeeStatus     string   `json:"fee_status" validate:"omitempty,oneof=due paid partial"`
}

// parseDate accepts plain dates and RFC3339 timestamps
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// ListStudents handles GET /api/v1/students
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")
	roomNumber := c.Query("room_number", "")
	stayType := c.Query("stay_type", "")
	active := c.Query("active", "true")

	query := h.db.Model(&model.Student{})

	// Inactive records are hidden unless explicitly requested
	switch active {
	case "false":
		query = query.Where("is_active = ?", false)
	case "all":
	default:
		query = query.Where("is_active = ?", true)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR roll_number ILIKE ? OR hostel_id ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if roomNumber != "" {
		query = query.Where("room_number = ?", roomNumber)
	}

	if stayType != "" {
		query = query.Where("stay_type = ?", stayType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count students")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var students []model.Student
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	results := make([]model.StudentResponse, 0, len(students))
	for i := range students {
		results = append(results, students[i].ToResponse())
	}

	return response.Paginated(c, results, pagination)
}

// GetStudent handles GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	return response.Success(c, student.ToResponse())
}

// CreateStudent handles POST /api/v1/students. Allocates a hostel ID,
// verifies room capacity and bed availability, and delivers login
// credentials over SMS after the record is committed.
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.RollNumber = validation.SanitizeString(req.RollNumber)
	gender := validation.NormalizeGender(req.Gender)

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	stayType := model.StayType(req.StayType)
	if stayType == "" {
		stayType = model.StayTypeMonthly
	}
	if stayType == model.StayTypeMonthly && req.SelectedMonth == "" {
		req.SelectedMonth = time.Now().Format("2006-01")
	}

	// Duplicate roll number or phone is a conflict, not a validation error
	var existing model.Student
	if err := h.db.Where("roll_number = ?", req.RollNumber).First(&existing).Error; err == nil {
		return response.Conflict(c, "A student with this roll number already exists")
	}
	if req.StudentPhone != "" {
		if err := h.db.Where("student_phone = ?", req.StudentPhone).First(&existing).Error; err == nil {
			return response.Conflict(c, "A student with this phone number already exists")
		}
	}

	// Capacity checks before touching the counter
	if req.RoomNumber != "" {
		if _, err := h.occupancy.EnsureRoomHasSpace(req.RoomNumber, gender, req.Category); err != nil {
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

	var student model.Student
	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		hostelID, err := services.AllocateHostelID(tx, gender, now)
		if err != nil {
			return err
		}

		student = model.Student{
			Name:          req.Name,
			RollNumber:    req.RollNumber,
			HostelID:      hostelID,
			Degree:        req.Degree,
			Branch:        req.Branch,
			Year:          req.Year,
			Gender:        gender,
			Email:         req.Email,
			StudentPhone:  req.StudentPhone,
			ParentPhone:   req.ParentPhone,
			RoomNumber:    req.RoomNumber,
			BedNumber:     req.BedNumber,
			Category:      req.Category,
			StayType:      stayType,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			DailyRate:     req.DailyRate,
			SelectedMonth: req.SelectedMonth,
			IsActive:      true,
			FeeStatus:     "due",
		}

		student.CalculatedCharges = services.CalculateCharges(services.ChargeInput{
			StayType:      student.StayType,
			CheckInDate:   student.CheckInDate,
			CheckOutDate:  student.CheckOutDate,
			DailyRate:     student.DailyRate,
			SelectedMonth: student.SelectedMonth,
		}, defaultRate, now)

		return tx.Create(&student).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create student")
	}

	// Credential SMS is best-effort and never fails the admission
	if h.sms != nil && h.sms.IsConfigured() && student.StudentPhone != "" {
		go func(s model.Student) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			msg := fmt.Sprintf("Welcome %s! Your hostel ID is %s.", s.Name, s.HostelID)
			if err := h.sms.Send(ctx, s.StudentPhone, msg); err != nil {
				log.Printf("Welcome SMS to %s failed: %v", s.StudentPhone, err)
			}
		}(student)
	}

	return response.Created(c, student.ToResponse())
}

// UpdateStudent handles PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if req.Name != "" {
		student.Name = validation.SanitizeString(req.Name)
	}
	if req.Degree != "" {
		student.Degree = req.Degree
	}
	if req.Branch != "" {
		student.Branch = req.Branch
	}
	if req.Year != nil {
		student.Year = *req.Year
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	if req.ParentPhone != "" {
		student.ParentPhone = req.ParentPhone
	}
	if req.FeeStatus != "" {
		student.FeeStatus = req.FeeStatus
	}

	if req.StudentPhone != "" && req.StudentPhone != student.StudentPhone {
		var existing model.Student
		if err := h.db.Where("student_phone = ? AND id != ?", req.StudentPhone, student.ID).
			First(&existing).Error; err == nil {
			return response.Conflict(c, "A student with this phone number already exists")
		}
		student.StudentPhone = req.StudentPhone
	}

	billingChanged := false

	if req.StayType != "" && model.StayType(req.StayType) != student.StayType {
		student.StayType = model.StayType(req.StayType)
		billingChanged = true
	}
	if req.CheckInDate != nil {
		t, err := parseDate(*req.CheckInDate)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		student.CheckInDate = t
		billingChanged = true
	}
	if req.CheckOutDate != nil {
		t, err := parseDate(*req.CheckOutDate)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		student.CheckOutDate = t
		billingChanged = true
	}
	if req.DailyRate != nil {
		student.DailyRate = req.DailyRate
		billingChanged = true
	}
	if req.SelectedMonth != nil {
		if *req.SelectedMonth != "" && !validation.IsValidMonth(*req.SelectedMonth) {
			return response.BadRequest(c, "Invalid month: expected YYYY-MM")
		}
		student.SelectedMonth = *req.SelectedMonth
		billingChanged = true
	}

	// Room or bed moves re-run the capacity checks with self-exclusion
	newRoom := student.RoomNumber
	if req.RoomNumber != nil {
		newRoom = *req.RoomNumber
	}
	newBed := student.BedNumber
	if req.BedNumber != nil {
		newBed = *req.BedNumber
	}
	newCategory := student.Category
	if req.Category != nil {
		newCategory = *req.Category
	}

	if newRoom != student.RoomNumber || newBed != student.BedNumber || newCategory != student.Category {
		if newRoom != "" {
			if newRoom != student.RoomNumber {
				if _, err := h.occupancy.EnsureRoomHasSpace(newRoom, student.Gender, newCategory); err != nil {
					return h.occupancyError(c, err)
				}
			}
			if err := h.occupancy.CheckBed(newRoom, newBed, services.OccupantRef{StudentID: student.ID}); err != nil {
				if errors.Is(err, services.ErrBedTaken) {
					return response.Conflict(c, "This bed is already occupied")
				}
				return response.InternalServerError(c, "Failed to check bed availability")
			}
		}
		student.RoomNumber = newRoom
		student.BedNumber = newBed
		student.Category = newCategory
	}

	if billingChanged {
		defaultRate, err := h.settings.GetDefaultDailyRate()
		if err != nil {
			return response.InternalServerError(c, "Failed to read default daily rate")
		}
		student.CalculatedCharges = services.CalculateCharges(services.ChargeInput{
			StayType:      student.StayType,
			CheckInDate:   student.CheckInDate,
			CheckOutDate:  student.CheckOutDate,
			DailyRate:     student.DailyRate,
			SelectedMonth: student.SelectedMonth,
		}, defaultRate, time.Now())
	}

	if err := h.db.Save(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to update student")
	}

	return response.SuccessWithMessage(c, "Student updated successfully", student.ToResponse())
}

// DeleteStudent handles DELETE /api/v1/students/:id. Domain-level soft
// delete: the record keeps its hostel ID and stops counting against room
// capacity.
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if !student.IsActive {
		return response.BadRequest(c, "Student is already inactive")
	}

	if err := h.db.Model(&student).Update("is_active", false).Error; err != nil {
		return response.InternalServerError(c, "Failed to deactivate student")
	}

	return response.SuccessWithMessage(c, "Student deactivated successfully", nil)
}

// ReactivateStudent handles POST /api/v1/students/:id/reactivate. The
// existing hostel ID is kept; the retained room assignment is re-checked
// against current occupancy before the record becomes visible again.
func (h *StudentHandler) ReactivateStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var student model.Student
	if err := h.db.First(&student, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}

	if student.IsActive {
		return response.BadRequest(c, "Student is already active")
	}

	if student.RoomNumber != "" {
		if _, err := h.occupancy.EnsureRoomHasSpace(student.RoomNumber, student.Gender, student.Category); err != nil {
			return h.occupancyError(c, err)
		}
		if err := h.occupancy.CheckBed(student.RoomNumber, student.BedNumber, services.OccupantRef{StudentID: student.ID}); err != nil {
			if errors.Is(err, services.ErrBedTaken) {
				return response.Conflict(c, "The previously assigned bed is now occupied")
			}
			return response.InternalServerError(c, "Failed to check bed availability")
		}
	}

	if err := h.db.Model(&student).Update("is_active", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to reactivate student")
	}

	student.IsActive = true
	return response.SuccessWithMessage(c, "Student reactivated successfully", student.ToResponse())
}

// occupancyError maps occupancy failures to the API error contract
func (h *StudentHandler) occupancyError(c *fiber.Ctx, err error) error {
	var full *services.RoomFullError
	if errors.Is(err, services.ErrRoomNotFound) {
		return response.NotFound(c, "Room not found")
	}
	if errors.As(err, &full) {
		return response.BadRequest(c, full.Error())
	}
	return response.InternalServerError(c, "Failed to check room availability")
}
