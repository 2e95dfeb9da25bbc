package services

import "testing"

func TestValidateHeaders(t *testing.T) {
	valid := []string{"Name", "RollNumber", "Degree", "Branch", "Year",
		"RoomNumber", "StudentPhone", "ParentPhone", "Gender", "Email"}

	if err := validateHeaders(valid); err != nil {
		t.Errorf("valid headers rejected: %v", err)
	}

	lower := []string{"name", "rollnumber", "degree", "branch", "year",
		"roomnumber", "studentphone", "parentphone", "gender", "email"}
	if err := validateHeaders(lower); err != nil {
		t.Errorf("case-insensitive headers rejected: %v", err)
	}

	padded := []string{" Name ", " RollNumber ", "Degree", "Branch", "Year",
		"RoomNumber", "StudentPhone", "ParentPhone", "Gender", "Email"}
	if err := validateHeaders(padded); err != nil {
		t.Errorf("padded headers rejected: %v", err)
	}

	extra := append(append([]string{}, valid...), "ExtraColumn")
	if err := validateHeaders(extra); err != nil {
		t.Errorf("trailing extra column rejected: %v", err)
	}

	if err := validateHeaders([]string{"Name", "RollNumber"}); err == nil {
		t.Error("short header row accepted")
	}

	wrongOrder := []string{"RollNumber", "Name", "Degree", "Branch", "Year",
		"RoomNumber", "StudentPhone", "ParentPhone", "Gender", "Email"}
	if err := validateHeaders(wrongOrder); err == nil {
		t.Error("reordered headers accepted")
	}
}

func TestCell(t *testing.T) {
	row := []string{" a ", "b", ""}

	if got := cell(row, 0); got != "a" {
		t.Errorf("cell(row, 0) = %q, want %q", got, "a")
	}
	if got := cell(row, 2); got != "" {
		t.Errorf("cell(row, 2) = %q, want empty", got)
	}
	// Indexing past the row is not an error, short rows are common in exports
	if got := cell(row, 10); got != "" {
		t.Errorf("cell(row, 10) = %q, want empty", got)
	}
}
