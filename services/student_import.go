package services

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// importHeaders is the required first row of an import spreadsheet, in order
var importHeaders = []string{
	"Name", "RollNumber", "Degree", "Branch", "Year",
	"RoomNumber", "StudentPhone", "ParentPhone", "Gender", "Email",
}

// ImportResult summarizes a bulk student import
type ImportResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// StudentImportService loads students in bulk from an .xlsx sheet
type StudentImportService struct {
	db       *gorm.DB
	settings *SettingsService
}

// NewStudentImportService creates a new import service
func NewStudentImportService(db *gorm.DB, settings *SettingsService) *StudentImportService {
	return &StudentImportService{db: db, settings: settings}
}

// ImportXLSX parses the first sheet of the workbook and inserts one student
// per valid row. Rows with missing required fields or a roll number already
// in the store are skipped and counted; a bad row never aborts the rest.
func (s *StudentImportService) ImportXLSX(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	if err := validateHeaders(rows[0]); err != nil {
		return nil, err
	}

	defaultRate, err := s.settings.GetDefaultDailyRate()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	now := time.Now()

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if err := s.importRow(row, defaultRate, now); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Added++
	}

	log.Printf("Student import finished: %d added, %d skipped", result.Added, result.Skipped)
	return result, nil
}

func validateHeaders(header []string) error {
	if len(header) < len(importHeaders) {
		return fmt.Errorf("invalid header row: expected columns %s", strings.Join(importHeaders, ", "))
	}
	for i, want := range importHeaders {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("invalid header %q in column %d: expected %q", header[i], i+1, want)
		}
	}
	return nil
}

// cell returns the trimmed cell value, tolerating short rows
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *StudentImportService) importRow(row []string, defaultRate float64, now time.Time) error {
	name := cell(row, 0)
	rollNumber := strings.ToUpper(cell(row, 1))
	gender := validation.NormalizeGender(cell(row, 8))

	if name == "" || rollNumber == "" {
		return fmt.Errorf("missing name or roll number")
	}
	if cell(row, 8) == "" {
		return fmt.Errorf("missing gender")
	}

	var existing int64
	if err := s.db.Model(&model.Student{}).Where("roll_number = ?", rollNumber).Count(&existing).Error; err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("roll number %s already exists", rollNumber)
	}

	year := 0
	if y := cell(row, 4); y != "" {
		year, _ = strconv.Atoi(y)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		hostelID, err := AllocateHostelID(tx, gender, now)
		if err != nil {
			return err
		}

		checkIn := now
		student := model.Student{
			Name:          name,
			RollNumber:    rollNumber,
			HostelID:      hostelID,
			Degree:        cell(row, 2),
			Branch:        cell(row, 3),
			Year:          year,
			RoomNumber:    cell(row, 5),
			StudentPhone:  cell(row, 6),
			ParentPhone:   cell(row, 7),
			Gender:        gender,
			Email:         cell(row, 9),
			StayType:      model.StayTypeMonthly,
			CheckInDate:   &checkIn,
			SelectedMonth: now.Format("2006-01"),
			IsActive:      true,
		}

		student.CalculatedCharges = CalculateCharges(ChargeInput{
			StayType:      student.StayType,
			CheckInDate:   student.CheckInDate,
			DailyRate:     student.DailyRate,
			SelectedMonth: student.SelectedMonth,
		}, defaultRate, now)

		return tx.Create(&student).Error
	})
}
