package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/config"
	"github.com/hosteldesk/hostel-api/database"
	"github.com/hosteldesk/hostel-api/handlers"
	admin_handlers "github.com/hosteldesk/hostel-api/handlers/admin"
	auth_handlers "github.com/hosteldesk/hostel-api/handlers/auth"
	feereminder_handlers "github.com/hosteldesk/hostel-api/handlers/feereminder"
	menu_handlers "github.com/hosteldesk/hostel-api/handlers/menu"
	notification_handlers "github.com/hosteldesk/hostel-api/handlers/notification"
	prereg_handlers "github.com/hosteldesk/hostel-api/handlers/preregistration"
	push_handlers "github.com/hosteldesk/hostel-api/handlers/push"
	room_handlers "github.com/hosteldesk/hostel-api/handlers/room"
	staff_handlers "github.com/hosteldesk/hostel-api/handlers/staff"
	student_handlers "github.com/hosteldesk/hostel-api/handlers/student"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/services/storage"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"github.com/hosteldesk/hostel-api/utils/cache"
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}

	jwtSecret := getEnv.JWT_SECRET
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "hostel-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs login brute force protection; the API runs without it
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	blacklistService := auth.NewBlacklistService(db, redisCache)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db, blacklistService)

	// Optional integrations come up nil when unconfigured; handlers degrade
	// to clear errors instead of the server refusing to start.
	var spacesClient *storage.SpacesClient
	if getEnv.SPACES_ACCESS_KEY != "" && getEnv.SPACES_SECRET_KEY != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize object storage: %v. Photo uploads will be disabled.", err)
		}
	}

	var smsClient *services.SMSClient
	if getEnv.SMS_API_KEY != "" {
		smsClient = services.NewSMSClient(getEnv.SMS_API_URL, getEnv.SMS_API_KEY)
	}

	var credentialService *services.CredentialService
	if getEnv.CREDENTIAL_SECRET != "" {
		credentialService, err = services.NewCredentialService(getEnv.CREDENTIAL_SECRET)
		if err != nil {
			log.Printf("Warning: Failed to initialize credential encryption: %v. Generated logins will be disabled.", err)
		}
	}

	settingsService := services.NewSettingsService(db)
	emailService := services.NewEmailService()
	pushService := services.NewPushService(db,
		getEnv.VAPID_PUBLIC_KEY, getEnv.VAPID_PRIVATE_KEY, getEnv.VAPID_SUBJECT)
	feeReminderService := services.NewFeeReminderService(db, emailService, pushService)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, blacklistService, bruteForceProtection, emailService)
	studentHandler := student_handlers.NewStudentHandler(db, settingsService, spacesClient, smsClient)
	staffHandler := staff_handlers.NewStaffHandler(db, settingsService, spacesClient)
	roomHandler := room_handlers.NewRoomHandler(db)
	menuHandler := menu_handlers.NewMenuHandler(db, spacesClient)
	feeReminderHandler := feereminder_handlers.NewFeeReminderHandler(db, feeReminderService)
	preRegHandler := prereg_handlers.NewPreRegistrationHandler(db, settingsService, credentialService, smsClient, emailService)
	pushHandler := push_handlers.NewPushHandler(db, pushService)
	adminHandler := admin_handlers.NewAdminHandler(db, settingsService)
	notificationHandler := notification_handlers.NewNotificationHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Pre-registration: the application form and status lookup are public,
	// the review queue is staff-only
	preRegs := api.Group("/pre-registrations")
	preRegs.Post("/", preRegHandler.Submit)
	preRegs.Get("/status/:rollNumber", preRegHandler.GetStatus)
	preRegs.Get("/", authMiddleware.RequireStaff(), preRegHandler.List)
	preRegs.Get("/:id", authMiddleware.RequireStaff(), preRegHandler.Get)
	preRegs.Post("/:id/approve", authMiddleware.RequireStaff(), preRegHandler.Approve)
	preRegs.Post("/:id/reject", authMiddleware.RequireStaff(), preRegHandler.Reject)

	// Students (staff)
	students := api.Group("/students", authMiddleware.RequireStaff())
	students.Get("/", studentHandler.ListStudents)
	students.Post("/", studentHandler.CreateStudent)
	students.Post("/import", studentHandler.ImportStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Put("/:id", studentHandler.UpdateStudent)
	students.Delete("/:id", studentHandler.DeleteStudent)
	students.Post("/:id/reactivate", studentHandler.ReactivateStudent)
	students.Post("/:id/photo", studentHandler.UploadPhoto)
	students.Delete("/:id/photo", studentHandler.DeletePhoto)

	// Staff and guests (staff)
	staff := api.Group("/staff", authMiddleware.RequireStaff())
	staff.Get("/", staffHandler.ListStaff)
	staff.Post("/", staffHandler.CreateStaff)
	staff.Get("/:id", staffHandler.GetStaff)
	staff.Put("/:id", staffHandler.UpdateStaff)
	staff.Delete("/:id", staffHandler.DeleteStaff)
	staff.Post("/:id/reactivate", staffHandler.ReactivateStaff)
	staff.Post("/:id/photo", staffHandler.UploadPhoto)
	staff.Delete("/:id/photo", staffHandler.DeletePhoto)

	// Rooms (staff; availability also used by the pre-registration review UI)
	rooms := api.Group("/rooms", authMiddleware.RequireStaff())
	rooms.Get("/", roomHandler.ListRooms)
	rooms.Get("/availability", roomHandler.GetRoomAvailability)
	rooms.Post("/", roomHandler.CreateRoom)
	rooms.Get("/:id", roomHandler.GetRoom)
	rooms.Put("/:id", roomHandler.UpdateRoom)
	rooms.Delete("/:id", roomHandler.DeleteRoom)

	// Mess menu: reading is public, editing is staff-only
	menu := api.Group("/menu")
	menu.Get("/", menuHandler.GetWeeklyMenu)
	menu.Get("/:day", menuHandler.GetDayMenu)
	menu.Put("/", authMiddleware.RequireStaff(), menuHandler.UpsertMenu)
	menu.Delete("/:id", authMiddleware.RequireStaff(), menuHandler.DeleteMenu)
	menu.Post("/:id/image", authMiddleware.RequireStaff(), menuHandler.UploadMenuImage)
	menu.Delete("/:id/image", authMiddleware.RequireStaff(), menuHandler.DeleteMenuImage)

	// Fee reminders (staff)
	feeReminders := api.Group("/fee-reminders", authMiddleware.RequireStaff())
	feeReminders.Get("/", feeReminderHandler.ListFeeReminders)
	feeReminders.Post("/", feeReminderHandler.CreateFeeReminder)
	feeReminders.Get("/:id", feeReminderHandler.GetFeeReminder)
	feeReminders.Put("/:id", feeReminderHandler.UpdateFeeReminder)
	feeReminders.Delete("/:id", feeReminderHandler.DeleteFeeReminder)
	feeReminders.Post("/:id/send", feeReminderHandler.SendFeeReminder)

	// Web push: subscription endpoints are public so the PWA can register
	// before login
	push := api.Group("/push")
	push.Get("/public-key", pushHandler.GetPublicKey)
	push.Post("/subscribe", pushHandler.Subscribe)
	push.Post("/unsubscribe", pushHandler.Unsubscribe)
	push.Get("/subscriptions", authMiddleware.RequireAdmin(), pushHandler.ListSubscriptions)
	push.Post("/broadcast", authMiddleware.RequireAdmin(), pushHandler.Broadcast)

	// In-app notifications (any authenticated panel user)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Post("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Post("/:id/read", notificationHandler.MarkAsRead)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)

	// Admin-only: settings and warden accounts, with audit logging on writes
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/settings", adminHandler.GetSettings)
	admin.Put("/settings/daily-rate", middleware.AdminAuditLog(db, "setting_update", "settings"), adminHandler.UpdateDefaultDailyRate)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", middleware.AdminAuditLog(db, "user_create", "users"), adminHandler.CreateUser)
	admin.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), adminHandler.UpdateUser)
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), adminHandler.DeleteUser)
}
