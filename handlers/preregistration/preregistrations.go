package preregistration

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
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// PreRegistrationHandler handles the public application flow and its admin
// review queue
type PreRegistrationHandler struct {
	db            *gorm.DB
	validator     *validation.Validator
	occupancy     *services.OccupancyService
	settings      *services.SettingsService
	credentials   *services.CredentialService
	notifications *services.NotificationService
	sms           *services.SMSClient
	email         *services.EmailService
}

// NewPreRegistrationHandler creates a new pre-registration handler. sms and
// credentials may be nil when the corresponding services are not configured.
func NewPreRegistrationHandler(
	db *gorm.DB,
	settings *services.SettingsService,
	credentials *services.CredentialService,
	sms *services.SMSClient,
	email *services.EmailService,
) *PreRegistrationHandler {
	return &PreRegistrationHandler{
		db:            db,
		validator:     validation.NewValidator(),
		occupancy:     services.NewOccupancyService(db),
		settings:      settings,
		credentials:   credentials,
		notifications: services.NewNotificationService(db),
		sms:           sms,
		email:         email,
	}
}

// SubmitRequest represents the public application form
type SubmitRequest struct {
	Name              string `json:"name" validate:"required,min=2,max=255"`
	RollNumber        string `json:"roll_number" validate:"required,min=1,max=50"`
	Degree            string `json:"degree" validate:"omitempty,max=100"`
	Branch            string `json:"branch" validate:"omitempty,max=100"`
	Year              int    `json:"year" validate:"omitempty,gte=1,lte=6"`
	Gender            string `json:"gender" validate:"required"`
	Email             string `json:"email" validate:"omitempty,email"`
	StudentPhone      string `json:"student_phone" validate:"omitempty,phone"`
	ParentPhone       string `json:"parent_phone" validate:"omitempty,phone"`
	PreferredRoomType string `json:"preferred_room_type" validate:"omitempty,max=50"`
}

// ApproveRequest represents the admin approval form assigning a room
type ApproveRequest struct {
	RoomNumber    string   `json:"room_number" validate:"omitempty,max=20"`
	BedNumber     string   `json:"bed_number" validate:"omitempty,max=10"`
	Category      string   `json:"category" validate:"omitempty,max=50"`
	StayType      string   `json:"stay_type" validate:"omitempty,oneof=daily monthly"`
	DailyRate     *float64 `json:"daily_rate" validate:"omitempty,gte=0"`
	SelectedMonth string   `json:"selected_month" validate:"omitempty,month"`
}

// RejectRequest represents the admin rejection form
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// Submit handles POST /api/v1/pre-registrations (public). Duplicate roll
// numbers are rejected against both the queue and the admitted students.
func (h *PreRegistrationHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existingPreReg model.PreRegistration
	if err := h.db.Where("roll_number = ?", req.RollNumber).
		First(&existingPreReg).Error; err == nil {
		return response.Conflict(c, "An application with this roll number already exists")
	}

	var existingStudent model.Student
	if err := h.db.Where("roll_number = ?", req.RollNumber).
		First(&existingStudent).Error; err == nil {
		return response.Conflict(c, "A student with this roll number is already registered")
	}

	preReg := model.PreRegistration{
		Name:              validation.SanitizeString(req.Name),
		RollNumber:        req.RollNumber,
		Degree:            req.Degree,
		Branch:            req.Branch,
		Year:              req.Year,
		Gender:            validation.NormalizeGender(req.Gender),
		Email:             req.Email,
		StudentPhone:      req.StudentPhone,
		ParentPhone:       req.ParentPhone,
		PreferredRoomType: req.PreferredRoomType,
		Status:            model.PreRegStatusPending,
	}

	if err := h.db.Create(&preReg).Error; err != nil {
		return response.InternalServerError(c, "Failed to submit application")
	}

	h.notifications.NotifyStaffUsers(context.Background(),
		model.NotificationTypeInfo,
		model.NotificationCategoryPreRegistration,
		"New pre-registration",
		fmt.Sprintf("%s (%s) applied for admission", preReg.Name, preReg.RollNumber),
		&model.NotificationMetadata{RollNumber: preReg.RollNumber})

	return response.Created(c, fiber.Map{
		"id":          preReg.ID,
		"roll_number": preReg.RollNumber,
		"status":      preReg.Status,
	})
}

// GetStatus handles GET /api/v1/pre-registrations/status/:rollNumber (public).
// Returns only the lifecycle state, not the full record.
func (h *PreRegistrationHandler) GetStatus(c *fiber.Ctx) error {
	rollNumber := c.Params("rollNumber")

	var preReg model.PreRegistration
	if err := h.db.Where("roll_number = ?", rollNumber).First(&preReg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			var student model.Student
			if err := h.db.Where("roll_number = ?", rollNumber).
				First(&student).Error; err == nil {
				return response.Success(c, fiber.Map{
					"roll_number": rollNumber,
					"status":      model.PreRegStatusApproved,
				})
			}
			return response.NotFound(c, "No application found for this roll number")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	result := fiber.Map{
		"roll_number": preReg.RollNumber,
		"status":      preReg.Status,
	}
	if preReg.Status == model.PreRegStatusRejected && preReg.RejectionReason != "" {
		result["rejection_reason"] = preReg.RejectionReason
	}

	return response.Success(c, result)
}

// List handles GET /api/v1/pre-registrations (staff)
func (h *PreRegistrationHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	status := c.Query("status", "")
	search := c.Query("search", "")

	query := h.db.Model(&model.PreRegistration{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		query = query.Where("name ILIKE ? OR roll_number ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count applications")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var preRegs []model.PreRegistration
	if err := query.Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&preRegs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Paginated(c, preRegs, pagination)
}

// Get handles GET /api/v1/pre-registrations/:id (staff)
func (h *PreRegistrationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	var preReg model.PreRegistration
	if err := h.db.First(&preReg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	return response.Success(c, preReg)
}

// Approve handles POST /api/v1/pre-registrations/:id/approve. Converts the
// application into a student with a generated login, all inside one
// transaction, then delivers the credentials out of band.
func (h *PreRegistrationHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")

	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var preReg model.PreRegistration
	if err := h.db.First(&preReg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if preReg.Status != model.PreRegStatusPending {
		return response.BadRequest(c, "Application has already been reviewed")
	}

	var existingStudent model.Student
	if err := h.db.Where("roll_number = ?", preReg.RollNumber).
		First(&existingStudent).Error; err == nil {
		return response.Conflict(c, "A student with this roll number is already registered")
	}

	if req.RoomNumber != "" {
		if _, err := h.occupancy.EnsureRoomHasSpace(req.RoomNumber, preReg.Gender, req.Category); err != nil {
			return h.occupancyError(c, err)
		}
		if err := h.occupancy.CheckBed(req.RoomNumber, req.BedNumber, services.OccupantRef{}); err != nil {
			if errors.Is(err, services.ErrBedTaken) {
				return response.Conflict(c, "This bed is already occupied")
			}
			return response.InternalServerError(c, "Failed to check bed availability")
		}
	}

	stayType := model.StayType(req.StayType)
	if stayType == "" {
		stayType = model.StayTypeMonthly
	}
	selectedMonth := req.SelectedMonth
	if stayType == model.StayTypeMonthly && selectedMonth == "" {
		selectedMonth = time.Now().Format("2006-01")
	}

	defaultRate, err := h.settings.GetDefaultDailyRate()
	if err != nil {
		return response.InternalServerError(c, "Failed to read default daily rate")
	}

	var student model.Student
	var cred *services.GeneratedCredential
	now := time.Now()

	err = h.db.Transaction(func(tx *gorm.DB) error {
		hostelID, err := services.AllocateHostelID(tx, preReg.Gender, now)
		if err != nil {
			return err
		}

		checkIn := now
		student = model.Student{
			Name:          preReg.Name,
			RollNumber:    preReg.RollNumber,
			HostelID:      hostelID,
			Degree:        preReg.Degree,
			Branch:        preReg.Branch,
			Year:          preReg.Year,
			Gender:        preReg.Gender,
			Email:         preReg.Email,
			StudentPhone:  preReg.StudentPhone,
			ParentPhone:   preReg.ParentPhone,
			RoomNumber:    req.RoomNumber,
			BedNumber:     req.BedNumber,
			Category:      req.Category,
			StayType:      stayType,
			CheckInDate:   &checkIn,
			DailyRate:     req.DailyRate,
			SelectedMonth: selectedMonth,
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

		if err := tx.Create(&student).Error; err != nil {
			return err
		}

		if h.credentials != nil {
			cred, err = h.credentials.CreateForStudent(tx, &student)
			if err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&preReg).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to approve application")
	}

	if cred != nil {
		go h.deliverCredentials(student, *cred)
	}

	if user, ok := middleware.GetUser(c); ok && user != nil {
		h.notifications.NotifyStaffUsers(context.Background(),
			model.NotificationTypeSuccess,
			model.NotificationCategoryPreRegistration,
			"Application approved",
			fmt.Sprintf("%s (%s) was admitted as %s", student.Name, student.RollNumber, student.HostelID),
			&model.NotificationMetadata{
				RollNumber: student.RollNumber,
				HostelID:   student.HostelID,
				RoomNumber: student.RoomNumber,
			})
	}

	return response.SuccessWithMessage(c, "Application approved successfully", student.ToResponse())
}

// deliverCredentials sends the generated login over SMS and email.
// Failures are logged; admission has already committed.
func (h *PreRegistrationHandler) deliverCredentials(student model.Student, cred services.GeneratedCredential) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	delivered := false

	if h.sms != nil && h.sms.IsConfigured() && student.StudentPhone != "" {
		if err := h.sms.SendCredentials(ctx, student.StudentPhone,
			student.Name, student.HostelID, cred.Username, cred.Password); err != nil {
			log.Printf("Credential SMS to %s failed: %v", student.StudentPhone, err)
		} else {
			delivered = true
		}
	}

	if h.email != nil && h.email.IsConfigured() && student.Email != "" {
		if err := h.email.SendCredentialsEmail(student.Email,
			student.Name, student.HostelID, cred.Username, cred.Password); err != nil {
			log.Printf("Credential email to %s failed: %v", student.Email, err)
		} else {
			delivered = true
		}
	}

	if delivered && h.credentials != nil {
		if err := h.credentials.MarkDelivered(h.db, student.ID); err != nil {
			log.Printf("Failed to mark credential delivered for student %d: %v", student.ID, err)
		}
	}
}

// Reject handles POST /api/v1/pre-registrations/:id/reject. The record is
// kept with its reason so the applicant can look up why.
func (h *PreRegistrationHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var preReg model.PreRegistration
	if err := h.db.First(&preReg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if preReg.Status != model.PreRegStatusPending {
		return response.BadRequest(c, "Application has already been reviewed")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           model.PreRegStatusRejected,
		"rejection_reason": req.Reason,
		"reviewed_at":      now,
	}
	if user, ok := middleware.GetUser(c); ok && user != nil {
		updates["reviewed_by"] = user.ID
	}

	if err := h.db.Model(&preReg).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to reject application")
	}

	return response.SuccessWithMessage(c, "Application rejected", nil)
}

func (h *PreRegistrationHandler) occupancyError(c *fiber.Ctx, err error) error {
	var full *services.RoomFullError
	if errors.Is(err, services.ErrRoomNotFound) {
		return response.NotFound(c, "Room not found")
	}
	if errors.As(err, &full) {
		return response.BadRequest(c, full.Error())
	}
	return response.InternalServerError(c, "Failed to check room availability")
}
