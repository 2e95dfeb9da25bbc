package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// HostelIDPrefix returns BH for male occupants and GH for everyone else
func HostelIDPrefix(gender string) string {
	if strings.EqualFold(gender, "male") {
		return "BH"
	}
	return "GH"
}

// AllocateHostelID hands out the next hostel ID for the given gender, e.g.
// "BH25042". The sequence comes from a per-(prefix, year) counter row bumped
// by a single upsert statement, so concurrent allocations never see the same
// value. A sequence consumed by a failed downstream write is skipped, never
// reused; gaps in issued IDs are expected.
func AllocateHostelID(db *gorm.DB, gender string, now time.Time) (string, error) {
	prefix := HostelIDPrefix(gender)
	yy := now.Format("06")
	counterKey := fmt.Sprintf("hostel_%s%s", prefix, yy)

	var sequence int64
	err := db.Raw(`
		INSERT INTO counters (key, sequence, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (key)
		DO UPDATE SET sequence = counters.sequence + 1, updated_at = NOW()
		RETURNING sequence`, counterKey).Scan(&sequence).Error
	if err != nil {
		return "", fmt.Errorf("failed to allocate hostel ID sequence: %w", err)
	}

	return FormatHostelID(prefix, yy, sequence), nil
}

// FormatHostelID renders a hostel ID from its parts. Sequences are
// zero-padded to three digits and simply grow wider past 999.
func FormatHostelID(prefix, yy string, sequence int64) string {
	return fmt.Sprintf("%s%s%03d", prefix, yy, sequence)
}
