package services

import (
	"fmt"
	"time"

	"github.com/hosteldesk/hostel-api/model"
)

// EffectiveRate returns the per-record override when set, else the
// configured default daily rate.
func EffectiveRate(override *float64, defaultRate float64) float64 {
	if override != nil {
		return *override
	}
	return defaultRate
}

// DaysBetween counts days from checkIn through until, inclusive of the
// check-in day. Same-day stays count as 1 day; check-in on D with checkout
// on D+5 counts 6 days. Times of day are ignored.
func DaysBetween(checkIn, until time.Time) int {
	start := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC)

	if end.Before(start) {
		return 0
	}

	days := int(end.Sub(start).Hours()/24) + 1
	return days
}

// DailyCharge computes the charge for a daily-stay occupant. An open stay
// (nil checkout) is billed up to now.
func DailyCharge(checkIn *time.Time, checkOut *time.Time, now time.Time, rate float64) float64 {
	if checkIn == nil {
		return 0
	}

	until := now
	if checkOut != nil {
		until = *checkOut
	}

	days := DaysBetween(*checkIn, until)
	return float64(days) * rate
}

// MonthlyCharge computes the charge for a monthly-stay occupant for the
// selected month ("YYYY-MM"): days in that month times the daily rate.
func MonthlyCharge(selectedMonth string, rate float64) (float64, error) {
	t, err := time.Parse("2006-01", selectedMonth)
	if err != nil {
		return 0, fmt.Errorf("invalid month %q: expected YYYY-MM", selectedMonth)
	}

	daysInMonth := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return float64(daysInMonth) * rate, nil
}

// ChargeInput is the billing-relevant slice of a student or staff record
type ChargeInput struct {
	StayType      model.StayType
	CheckInDate   *time.Time
	CheckOutDate  *time.Time
	DailyRate     *float64
	SelectedMonth string
}

// CalculateCharges computes the stored charge for one occupant record.
// Monthly records without a selected month charge zero rather than erroring;
// the month format is validated at the API boundary.
func CalculateCharges(in ChargeInput, defaultRate float64, now time.Time) float64 {
	rate := EffectiveRate(in.DailyRate, defaultRate)

	switch in.StayType {
	case model.StayTypeMonthly:
		if in.SelectedMonth == "" {
			return 0
		}
		charge, err := MonthlyCharge(in.SelectedMonth, rate)
		if err != nil {
			return 0
		}
		return charge
	default:
		return DailyCharge(in.CheckInDate, in.CheckOutDate, now, rate)
	}
}
