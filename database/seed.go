package database

import (
	"fmt"
	"log"
	"os"

	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedAppSettings(); err != nil {
		return fmt.Errorf("failed to seed app settings: %w", err)
	}

	if err := s.SeedRooms(); err != nil {
		return fmt.Errorf("failed to seed rooms: %w", err)
	}

	log.Println("🌱 Database seeding completed")
	return nil
}

// SeedAdminUser creates the initial admin account if none exists
func (s *Seeder) SeedAdminUser() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@hosteldesk.app"
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping")
		return nil
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123!"
		log.Println("ADMIN_PASSWORD not set, using default (change it after first login)")
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Hostel Admin",
		Role:         "admin",
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user %s", adminEmail)
	return nil
}

// SeedAppSettings creates the default settings rows
func (s *Seeder) SeedAppSettings() error {
	settings := []model.AppSetting{
		{
			Key:         model.SettingDefaultDailyRate,
			Value:       "150",
			Type:        "float",
			Description: "Default per-day charge applied when a record has no rate override",
		},
		{
			Key:         model.SettingHostelName,
			Value:       "HostelDesk",
			Type:        "string",
			Description: "Display name used in emails and SMS",
			IsPublic:    true,
		},
		{
			Key:         model.SettingSMSEnabled,
			Value:       "true",
			Type:        "bool",
			Description: "Master switch for outbound credential SMS",
		},
	}

	for _, setting := range settings {
		var existing model.AppSetting
		err := s.db.Where("key = ?", setting.Key).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := s.db.Create(&setting).Error; err != nil {
				return err
			}
			log.Printf("Seeded setting %s = %s", setting.Key, setting.Value)
		} else if err != nil {
			return err
		}
	}

	return nil
}

// SeedRooms creates a starter room grid when the rooms table is empty
func (s *Seeder) SeedRooms() error {
	var count int64
	if err := s.db.Model(&model.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Rooms already exist, skipping")
		return nil
	}

	rooms := []model.Room{}
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 10; n++ {
			rooms = append(rooms, model.Room{
				RoomNumber: fmt.Sprintf("B%d%02d", floor, n),
				Gender:     "Male",
				Category:   "standard",
				BedCount:   3,
				Floor:      floor,
			})
			rooms = append(rooms, model.Room{
				RoomNumber: fmt.Sprintf("G%d%02d", floor, n),
				Gender:     "Female",
				Category:   "standard",
				BedCount:   3,
				Floor:      floor,
			})
		}
	}

	if err := s.db.Create(&rooms).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d rooms", len(rooms))
	return nil
}
