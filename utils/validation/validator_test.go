package validation

import "testing"

func TestIsValidMonth(t *testing.T) {
	tests := []struct {
		month string
		want  bool
	}{
		{"2025-01", true},
		{"2025-12", true},
		{"2024-02", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-1", false},
		{"25-01", false},
		{"January", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidMonth(tt.month); got != tt.want {
			t.Errorf("IsValidMonth(%q) = %v, want %v", tt.month, got, tt.want)
		}
	}
}

func TestPhoneRegex(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"+19876543210", true},
		{"98765", false},
		{"98765432100", false},
		{"abcdefghij", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := PhoneRegex.MatchString(tt.phone); got != tt.want {
			t.Errorf("PhoneRegex.MatchString(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"male", "Male"},
		{"Male", "Male"},
		{"MALE", "Male"},
		{" male ", "Male"},
		{"female", "Female"},
		{"Female", "Female"},
		{"other", "Female"},
		{"", "Female"},
	}

	for _, tt := range tests {
		if got := NormalizeGender(tt.in); got != tt.want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Month string `validate:"omitempty,month"`
		Phone string `validate:"omitempty,phone"`
	}

	if err := v.ValidateStruct(payload{Month: "2025-06", Phone: "9876543210"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := v.ValidateStruct(payload{Month: "2025-66"}); err == nil {
		t.Error("invalid month accepted")
	}
	if err := v.ValidateStruct(payload{Phone: "123"}); err == nil {
		t.Error("invalid phone accepted")
	}
	if err := v.ValidateStruct(payload{}); err != nil {
		t.Errorf("empty optional fields rejected: %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeString = %q, want %q", got, "helloworld")
	}
}
