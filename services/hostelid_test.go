package services

import "testing"

func TestHostelIDPrefix(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"male", "BH"},
		{"Male", "BH"},
		{"MALE", "BH"},
		{"female", "GH"},
		{"Female", "GH"},
		{"other", "GH"},
		{"", "GH"},
	}

	for _, tt := range tests {
		if got := HostelIDPrefix(tt.gender); got != tt.want {
			t.Errorf("HostelIDPrefix(%q) = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestFormatHostelID(t *testing.T) {
	tests := []struct {
		prefix   string
		yy       string
		sequence int64
		want     string
	}{
		{"BH", "25", 1, "BH25001"},
		{"BH", "25", 42, "BH25042"},
		{"GH", "25", 999, "GH25999"},
		// Past three digits the ID simply grows wider
		{"GH", "25", 1000, "GH251000"},
		{"BH", "26", 12345, "BH2612345"},
	}

	for _, tt := range tests {
		if got := FormatHostelID(tt.prefix, tt.yy, tt.sequence); got != tt.want {
			t.Errorf("FormatHostelID(%q, %q, %d) = %q, want %q", tt.prefix, tt.yy, tt.sequence, got, tt.want)
		}
	}
}
