package services

import (
	"testing"
	"time"

	"github.com/hosteldesk/hostel-api/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name    string
		checkIn time.Time
		until   time.Time
		want    int
	}{
		{"same day", date(2025, 3, 10), date(2025, 3, 10), 1},
		{"five days later", date(2025, 3, 10), date(2025, 3, 15), 6},
		{"across month boundary", date(2025, 3, 30), date(2025, 4, 2), 4},
		{"across year boundary", date(2024, 12, 30), date(2025, 1, 2), 4},
		{"end before start", date(2025, 3, 10), date(2025, 3, 9), 0},
		{"times of day ignored", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.checkIn, tt.until); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.checkIn, tt.until, got, tt.want)
			}
		})
	}
}

func TestMonthlyCharge(t *testing.T) {
	tests := []struct {
		name    string
		month   string
		rate    float64
		want    float64
		wantErr bool
	}{
		{"31 day month", "2025-01", 100, 3100, false},
		{"30 day month", "2025-04", 100, 3000, false},
		{"february", "2025-02", 100, 2800, false},
		{"leap february", "2024-02", 100, 2900, false},
		{"fractional rate", "2025-04", 150.5, 4515, false},
		{"bad format", "April 2025", 100, 0, true},
		{"empty", "", 100, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyCharge(tt.month, tt.rate)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MonthlyCharge(%q) expected error, got %v", tt.month, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("MonthlyCharge(%q) unexpected error: %v", tt.month, err)
			}
			if got != tt.want {
				t.Errorf("MonthlyCharge(%q, %v) = %v, want %v", tt.month, tt.rate, got, tt.want)
			}
		})
	}
}

func TestEffectiveRate(t *testing.T) {
	override := 200.0
	zero := 0.0

	if got := EffectiveRate(nil, 150); got != 150 {
		t.Errorf("EffectiveRate(nil, 150) = %v, want 150", got)
	}
	if got := EffectiveRate(&override, 150); got != 200 {
		t.Errorf("EffectiveRate(&200, 150) = %v, want 200", got)
	}
	// An explicit zero override is honored, not treated as unset
	if got := EffectiveRate(&zero, 150); got != 0 {
		t.Errorf("EffectiveRate(&0, 150) = %v, want 0", got)
	}
}

func TestDailyCharge(t *testing.T) {
	now := date(2025, 6, 15)
	checkIn := date(2025, 6, 10)
	checkOut := date(2025, 6, 12)

	if got := DailyCharge(nil, nil, now, 100); got != 0 {
		t.Errorf("DailyCharge with nil check-in = %v, want 0", got)
	}

	// Closed stay: 10th through 12th inclusive is 3 days
	if got := DailyCharge(&checkIn, &checkOut, now, 100); got != 300 {
		t.Errorf("DailyCharge closed stay = %v, want 300", got)
	}

	// Open stay billed up to now: 10th through 15th inclusive is 6 days
	if got := DailyCharge(&checkIn, nil, now, 100); got != 600 {
		t.Errorf("DailyCharge open stay = %v, want 600", got)
	}
}

func TestCalculateCharges(t *testing.T) {
	now := date(2025, 6, 15)
	checkIn := date(2025, 6, 10)
	override := 200.0

	tests := []struct {
		name string
		in   ChargeInput
		want float64
	}{
		{
			"monthly with selected month",
			ChargeInput{StayType: model.StayTypeMonthly, SelectedMonth: "2025-06"},
			4500, // 30 days at the 150 default
		},
		{
			"monthly with override rate",
			ChargeInput{StayType: model.StayTypeMonthly, SelectedMonth: "2025-06", DailyRate: &override},
			6000,
		},
		{
			"monthly without month charges nothing",
			ChargeInput{StayType: model.StayTypeMonthly},
			0,
		},
		{
			"monthly with malformed month charges nothing",
			ChargeInput{StayType: model.StayTypeMonthly, SelectedMonth: "June"},
			0,
		},
		{
			"daily open stay",
			ChargeInput{StayType: model.StayTypeDaily, CheckInDate: &checkIn},
			900, // 6 days at 150
		},
		{
			"unset stay type falls back to daily math",
			ChargeInput{CheckInDate: &checkIn},
			900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateCharges(tt.in, 150, now); got != tt.want {
				t.Errorf("CalculateCharges() = %v, want %v", got, tt.want)
			}
		})
	}
}
