package main

import (
	"log"
	"time"

	"github.com/hosteldesk/hostel-api/database"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// One-shot maintenance run: expire lapsed monthly staff/guests and refresh
// every active occupant's calculated charges. Useful after restoring a
// backup or when the in-process cron is disabled.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	gormDB := store.GetDB().(*gorm.DB)
	now := time.Now()

	expired, err := services.ExpireLapsedMonthly(gormDB, now)
	if err != nil {
		log.Fatalf("Monthly expiry sweep failed: %v", err)
	}
	log.Printf("Expired %d lapsed monthly staff/guest records", expired)

	rate, err := services.NewSettingsService(gormDB).GetDefaultDailyRate()
	if err != nil {
		log.Fatalf("Failed to read default daily rate: %v", err)
	}

	updated, err := services.RecalculateAllCharges(gormDB, rate, now)
	if err != nil {
		log.Fatalf("Charge recalculation failed: %v", err)
	}
	log.Printf("Recalculated charges for %d records", updated)
}
