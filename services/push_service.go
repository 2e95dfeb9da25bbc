package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/hosteldesk/hostel-api/model"
	"gorm.io/gorm"
)

// PushService sends web push notifications to subscribed browsers
type PushService struct {
	db         *gorm.DB
	publicKey  string
	privateKey string
	subject    string
}

// NewPushService creates a new push service
func NewPushService(db *gorm.DB, publicKey, privateKey, subject string) *PushService {
	if subject == "" {
		subject = "mailto:admin@hosteldesk.app"
	}
	return &PushService{
		db:         db,
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}
}

// IsConfigured checks if VAPID keys are present
func (s *PushService) IsConfigured() bool {
	return s.publicKey != "" && s.privateKey != ""
}

// PublicKey returns the VAPID public key for frontend subscription
func (s *PushService) PublicKey() string {
	return s.publicKey
}

// PushPayload is the JSON body delivered to the service worker
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Subscribe registers or refreshes a push subscription. The endpoint is the
// identity; re-subscribing updates the keys in place.
func (s *PushService) Subscribe(ctx context.Context, endpoint, p256dh, auth string, userID *uint) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).First(&sub).Error
	if err == nil {
		sub.P256dh = p256dh
		sub.Auth = auth
		sub.UserID = userID
		if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh subscription: %w", err)
		}
		return &sub, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}

	sub = model.PushSubscription{
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
		UserID:   userID,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return &sub, nil
}

// Unsubscribe removes a subscription by endpoint
func (s *PushService) Unsubscribe(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Where("endpoint = ?", endpoint).
		Delete(&model.PushSubscription{}).Error
}

// Broadcast sends the payload to every registered subscription. Gone
// endpoints (404/410) are pruned as they are discovered. Returns the number
// of successful deliveries.
func (s *PushService) Broadcast(ctx context.Context, payload PushPayload) (int, error) {
	if !s.IsConfigured() {
		return 0, fmt.Errorf("push service not configured")
	}

	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return 0, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := s.sendTo(&sub, body); err != nil {
			log.Printf("Push to subscription %d failed: %v", sub.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}

// sendTo delivers one message and prunes the subscription when the push
// service reports it gone.
func (s *PushService) sendTo(sub *model.PushSubscription, body []byte) error {
	resp, err := webpush.SendNotification(body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             3600,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if delErr := s.db.Delete(sub).Error; delErr == nil {
			log.Printf("Pruned dead push subscription %d", sub.ID)
		}
		return fmt.Errorf("subscription gone (status %d)", resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	return nil
}

// ListSubscriptions returns all registered subscriptions
func (s *PushService) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
