package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/gorm"
)

// FeeReminderService dispatches fee reminders to residents over email and
// web push. Delivery is best-effort per recipient; the reminder records
// aggregate sent/failed counts.
type FeeReminderService struct {
	db    *gorm.DB
	email *EmailService
	push  *PushService
}

// NewFeeReminderService creates a new fee reminder service
func NewFeeReminderService(db *gorm.DB, email *EmailService, push *PushService) *FeeReminderService {
	return &FeeReminderService{db: db, email: email, push: push}
}

// ErrAlreadySent rejects re-dispatching a reminder
var ErrAlreadySent = fmt.Errorf("reminder has already been sent")

// Send emails every active student in the reminder's audience, broadcasts a
// push notification, and marks the reminder sent with delivery counters.
func (s *FeeReminderService) Send(ctx context.Context, reminder *model.FeeReminder) error {
	if reminder.Status == model.FeeReminderSent {
		return ErrAlreadySent
	}

	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	switch reminder.Audience {
	case "daily":
		query = query.Where("stay_type = ?", model.StayTypeDaily)
	case "monthly":
		query = query.Where("stay_type = ?", model.StayTypeMonthly)
	}

	var students []model.Student
	if err := query.Find(&students).Error; err != nil {
		return fmt.Errorf("failed to load recipients: %w", err)
	}

	sent, failed := 0, 0
	for _, student := range students {
		if student.Email == "" {
			continue
		}
		if err := s.email.SendFeeReminderEmail(student.Email, student.Name,
			reminder.Title, reminder.Message, reminder.DueDate); err != nil {
			log.Printf("Fee reminder email to %s failed: %v", student.Email, err)
			failed++
			continue
		}
		sent++
	}

	if s.push != nil && s.push.IsConfigured() {
		if _, err := s.push.Broadcast(ctx, PushPayload{
			Title: reminder.Title,
			Body:  reminder.Message,
			Tag:   fmt.Sprintf("fee-reminder-%d", reminder.ID),
		}); err != nil {
			log.Printf("Fee reminder push broadcast failed: %v", err)
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        model.FeeReminderSent,
		"sent_at":       now,
		"emails_sent":   sent,
		"emails_failed": failed,
	}
	if err := s.db.WithContext(ctx).Model(reminder).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	reminder.Status = model.FeeReminderSent
	reminder.SentAt = &now
	reminder.EmailsSent = sent
	reminder.EmailsFailed = failed
	return nil
}

// DispatchDue sends every draft reminder whose due date has arrived.
// Called daily from cron so reminders authored ahead of time go out on
// schedule without an admin clicking send.
func (s *FeeReminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	var due []model.FeeReminder
	err := s.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", model.FeeReminderDraft, now.Add(24*time.Hour)).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load due reminders: %w", err)
	}

	dispatched := 0
	for i := range due {
		if err := s.Send(ctx, &due[i]); err != nil {
			log.Printf("Failed to dispatch reminder %d: %v", due[i].ID, err)
			continue
		}
		dispatched++
	}

	return dispatched, nil
}
