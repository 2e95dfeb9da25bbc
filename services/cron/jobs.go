package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"github.com/hosteldesk/hostel-api/services"
)

// ExpireMonthlyStaff deactivates monthly staff/guests whose paid month has
// lapsed. The same sweep also runs eagerly before staff listings; the
// nightly run catches quiet days with no listing traffic.
func (m *CronManager) ExpireMonthlyStaff() {
	jobName := "expire_monthly_staff"

	expired, err := services.ExpireLapsedMonthly(m.db, time.Now())
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Expired %d lapsed monthly records", expired))
}

// DispatchFeeReminders sends every draft reminder whose due date has arrived
func (m *CronManager) DispatchFeeReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "dispatch_fee_reminders"

	dispatched, err := m.feeReminders.DispatchDue(ctx, time.Now())
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Dispatched %d reminders", dispatched))
}

// CleanupOldData purges rejected pre-registrations older than 90 days,
// blacklist rows past their token expiry, spent or expired password reset
// tokens, read notifications older than 30 days and cron logs older than
// 90 days.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"
	now := time.Now()

	var purged []string

	result := m.db.Unscoped().
		Where("status = ? AND updated_at < ?", model.PreRegStatusRejected, now.AddDate(0, 0, -90)).
		Delete(&model.PreRegistration{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge rejected pre-registrations: %w", result.Error))
		return
	}
	purged = append(purged, fmt.Sprintf("%d pre-registrations", result.RowsAffected))

	result = m.db.Unscoped().
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge expired blacklist rows: %w", result.Error))
		return
	}
	purged = append(purged, fmt.Sprintf("%d blacklist rows", result.RowsAffected))

	result = m.db.Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge reset tokens: %w", result.Error))
		return
	}
	purged = append(purged, fmt.Sprintf("%d reset tokens", result.RowsAffected))

	result = m.db.Unscoped().
		Where("read = ? AND created_at < ?", true, now.AddDate(0, 0, -30)).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge old notifications: %w", result.Error))
		return
	}
	purged = append(purged, fmt.Sprintf("%d notifications", result.RowsAffected))

	result = m.db.Unscoped().
		Where("created_at < ?", now.AddDate(0, 0, -90)).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge old cron logs: %w", result.Error))
		return
	}
	purged = append(purged, fmt.Sprintf("%d cron logs", result.RowsAffected))

	message := "Purged "
	for i, p := range purged {
		if i > 0 {
			message += ", "
		}
		message += p
	}
	m.logJobComplete(jobName, message)
}
