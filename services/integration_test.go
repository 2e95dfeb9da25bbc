package services

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupIntegrationDB connects to the Postgres instance described by the
// DB_* environment variables and migrates the models the tests touch.
// Skipped unless RUN_INTEGRATION_TESTS=true.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Counter{},
		&model.Room{},
		&model.Student{},
		&model.StaffGuest{},
		&model.AppSetting{},
	); err != nil {
		t.Fatalf("Failed to migrate test models: %v", err)
	}

	return db
}

func TestAllocateHostelIDUniqueness(t *testing.T) {
	db := setupIntegrationDB(t)
	now := time.Now()

	// Concurrent allocations must never hand out the same ID
	const workers = 20
	ids := make(chan string, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := AllocateHostelID(db, "Male", now)
			if err != nil {
				t.Errorf("AllocateHostelID failed: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate hostel ID allocated: %s", id)
		}
		seen[id] = true
	}
}

func TestAllocateHostelIDPrefixes(t *testing.T) {
	db := setupIntegrationDB(t)
	now := time.Now()
	yy := now.Format("06")

	male, err := AllocateHostelID(db, "Male", now)
	if err != nil {
		t.Fatalf("AllocateHostelID(Male) failed: %v", err)
	}
	if male[:4] != "BH"+yy {
		t.Errorf("male ID %q does not start with BH%s", male, yy)
	}

	female, err := AllocateHostelID(db, "Female", now)
	if err != nil {
		t.Fatalf("AllocateHostelID(Female) failed: %v", err)
	}
	if female[:4] != "GH"+yy {
		t.Errorf("female ID %q does not start with GH%s", female, yy)
	}
}

func TestOccupancyCountsBothKinds(t *testing.T) {
	db := setupIntegrationDB(t)
	now := time.Now()

	roomNumber := fmt.Sprintf("T%d", now.UnixNano()%100000)
	room := model.Room{
		RoomNumber: roomNumber,
		Gender:     "Male",
		Category:   "standard",
		BedCount:   2,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("room_number = ?", roomNumber).Delete(&model.Student{})
		db.Unscoped().Where("room_number = ?", roomNumber).Delete(&model.StaffGuest{})
		db.Unscoped().Delete(&room)
	})

	hostelID1, _ := AllocateHostelID(db, "Male", now)
	student := model.Student{
		Name: "Test Student", RollNumber: hostelID1 + "-R", HostelID: hostelID1,
		Gender: "Male", RoomNumber: roomNumber, BedNumber: "1", IsActive: true,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}

	hostelID2, _ := AllocateHostelID(db, "Male", now)
	staff := model.StaffGuest{
		Name: "Test Staff", Phone: fmt.Sprintf("9%09d", now.UnixNano()%1000000000),
		Type: model.OccupantTypeStaff, Gender: "Male", HostelID: hostelID2,
		RoomNumber: roomNumber, BedNumber: "2", StayType: model.StayTypeDaily, IsActive: true,
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("failed to create staff: %v", err)
	}

	svc := NewOccupancyService(db)

	result, err := svc.CheckRoom(roomNumber, "Male", "standard")
	if err != nil {
		t.Fatalf("CheckRoom failed: %v", err)
	}
	if result.TotalOccupants != 2 {
		t.Errorf("TotalOccupants = %d, want 2 (students and staff both count)", result.TotalOccupants)
	}
	if result.AvailableBeds != 0 {
		t.Errorf("AvailableBeds = %d, want 0", result.AvailableBeds)
	}

	if _, err := svc.EnsureRoomHasSpace(roomNumber, "Male", "standard"); err == nil {
		t.Error("EnsureRoomHasSpace accepted a full room")
	}

	// The student's own bed does not conflict with itself on edit
	if err := svc.CheckBed(roomNumber, "1", OccupantRef{StudentID: student.ID}); err != nil {
		t.Errorf("CheckBed with self-exclusion failed: %v", err)
	}
	if err := svc.CheckBed(roomNumber, "1", OccupantRef{}); err != ErrBedTaken {
		t.Errorf("CheckBed on a taken bed = %v, want ErrBedTaken", err)
	}

	// Deactivated occupants free their bed
	if err := db.Model(&staff).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}
	result, err = svc.CheckRoom(roomNumber, "Male", "standard")
	if err != nil {
		t.Fatal(err)
	}
	if result.AvailableBeds != 1 {
		t.Errorf("AvailableBeds after deactivation = %d, want 1", result.AvailableBeds)
	}
}

func TestExpireLapsedMonthly(t *testing.T) {
	db := setupIntegrationDB(t)
	now := time.Now()

	lastMonth := now.AddDate(0, -1, 0).Format("2006-01")
	thisMonth := now.Format("2006-01")

	hostelID1, _ := AllocateHostelID(db, "Male", now)
	lapsed := model.StaffGuest{
		Name: "Lapsed", Phone: fmt.Sprintf("8%09d", now.UnixNano()%1000000000),
		Type: model.OccupantTypeStaff, Gender: "Male", HostelID: hostelID1,
		RoomNumber: "E1", BedNumber: "1",
		StayType: model.StayTypeMonthly, SelectedMonth: lastMonth, IsActive: true,
	}
	hostelID2, _ := AllocateHostelID(db, "Male", now)
	current := model.StaffGuest{
		Name: "Current", Phone: fmt.Sprintf("7%09d", now.UnixNano()%1000000000),
		Type: model.OccupantTypeStaff, Gender: "Male", HostelID: hostelID2,
		RoomNumber: "E2", BedNumber: "1",
		StayType: model.StayTypeMonthly, SelectedMonth: thisMonth, IsActive: true,
	}
	if err := db.Create(&lapsed).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&current).Error; err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Unscoped().Delete(&lapsed)
		db.Unscoped().Delete(&current)
	})

	expired, err := ExpireLapsedMonthly(db, now)
	if err != nil {
		t.Fatalf("ExpireLapsedMonthly failed: %v", err)
	}
	if expired < 1 {
		t.Errorf("expired = %d, want at least 1", expired)
	}

	var reloaded model.StaffGuest
	if err := db.First(&reloaded, lapsed.ID).Error; err != nil {
		t.Fatal(err)
	}
	if reloaded.IsActive {
		t.Error("lapsed monthly record still active")
	}
	if reloaded.RoomNumber != "" || reloaded.BedNumber != "" {
		t.Errorf("lapsed record kept room %q bed %q, want cleared", reloaded.RoomNumber, reloaded.BedNumber)
	}

	if err := db.First(&reloaded, current.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !reloaded.IsActive {
		t.Error("current-month record was expired")
	}

	// Sweep is idempotent
	again, err := ExpireLapsedMonthly(db, now)
	if err != nil {
		t.Fatal(err)
	}
	_ = again
	if err := db.First(&reloaded, current.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !reloaded.IsActive {
		t.Error("second sweep expired a current-month record")
	}
}
