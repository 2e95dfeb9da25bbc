package services

import (
	"fmt"
	"log"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/gorm"
)

// ExpireLapsedMonthly deactivates active monthly staff/guests whose selected
// month is strictly before the current month, freeing their room and bed in
// the same update. Idempotent: a second run in the same instant matches
// nothing. Called eagerly before staff listings and nightly from cron.
func ExpireLapsedMonthly(db *gorm.DB, now time.Time) (int64, error) {
	currentMonth := now.Format("2006-01")

	result := db.Model(&model.StaffGuest{}).
		Where("is_active = ? AND stay_type = ? AND selected_month <> '' AND selected_month < ?",
			true, model.StayTypeMonthly, currentMonth).
		Updates(map[string]interface{}{
			"is_active":   false,
			"room_number": "",
			"bed_number":  "",
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire lapsed monthly staff: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d lapsed monthly staff/guest records", result.RowsAffected)
	}

	return result.RowsAffected, nil
}

// RecalculateAllCharges recomputes stored charges for every active student
// and staff/guest record using the current default daily rate. Run after the
// default rate changes so records without an override pick up the new rate.
func RecalculateAllCharges(db *gorm.DB, defaultRate float64, now time.Time) (int64, error) {
	var updated int64

	var students []model.Student
	if err := db.Where("is_active = ?", true).Find(&students).Error; err != nil {
		return 0, fmt.Errorf("failed to load students for recharge: %w", err)
	}

	for i := range students {
		s := &students[i]
		charges := CalculateCharges(ChargeInput{
			StayType:      s.StayType,
			CheckInDate:   s.CheckInDate,
			CheckOutDate:  s.CheckOutDate,
			DailyRate:     s.DailyRate,
			SelectedMonth: s.SelectedMonth,
		}, defaultRate, now)

		if charges == s.CalculatedCharges {
			continue
		}
		if err := db.Model(s).Update("calculated_charges", charges).Error; err != nil {
			return updated, fmt.Errorf("failed to update student %d charges: %w", s.ID, err)
		}
		updated++
	}

	var staff []model.StaffGuest
	if err := db.Where("is_active = ?", true).Find(&staff).Error; err != nil {
		return updated, fmt.Errorf("failed to load staff for recharge: %w", err)
	}

	for i := range staff {
		g := &staff[i]
		charges := CalculateCharges(ChargeInput{
			StayType:      g.StayType,
			CheckInDate:   g.CheckInDate,
			CheckOutDate:  g.CheckOutDate,
			DailyRate:     g.DailyRate,
			SelectedMonth: g.SelectedMonth,
		}, defaultRate, now)

		if charges == g.CalculatedCharges {
			continue
		}
		if err := db.Model(g).Update("calculated_charges", charges).Error; err != nil {
			return updated, fmt.Errorf("failed to update staff %d charges: %w", g.ID, err)
		}
		updated++
	}

	if updated > 0 {
		log.Printf("Recalculated charges for %d occupant records", updated)
	}

	return updated, nil
}
