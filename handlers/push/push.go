package push

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hosteldesk/hostel-api/services"
	"github.com/hosteldesk/hostel-api/utils/middleware"
	"github.com/hosteldesk/hostel-api/utils/response"
	"github.com/hosteldesk/hostel-api/utils/validation"
	"gorm.io/gorm"
)

// PushHandler handles web push subscription requests
type PushHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	push      *services.PushService
}

// NewPushHandler creates a new push handler
func NewPushHandler(db *gorm.DB, push *services.PushService) *PushHandler {
	return &PushHandler{
		db:        db,
		validator: validation.NewValidator(),
		push:      push,
	}
}

// SubscribeRequest is the browser's PushSubscription JSON
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// UnsubscribeRequest identifies the subscription to remove
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// BroadcastRequest is an admin-authored test notification
type BroadcastRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	Body  string `json:"body" validate:"required,min=1"`
	URL   string `json:"url" validate:"omitempty,url"`
}

// GetPublicKey handles GET /api/v1/push/public-key (public). The frontend
// needs the VAPID public key to create a subscription.
func (h *PushHandler) GetPublicKey(c *fiber.Ctx) error {
	if !h.push.IsConfigured() {
		return response.InternalServerError(c, "Push notifications are not configured")
	}

	return response.Success(c, fiber.Map{"public_key": h.push.PublicKey()})
}

// Subscribe handles POST /api/v1/push/subscribe (public). An authenticated
// caller's subscription is linked to their account.
func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var userID *uint
	if user, ok := middleware.GetUser(c); ok && user != nil {
		userID = &user.ID
	}

	sub, err := h.push.Subscribe(c.Context(), req.Endpoint, req.Keys.P256dh, req.Keys.Auth, userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to register subscription")
	}

	return response.Created(c, fiber.Map{"id": sub.ID})
}

// Unsubscribe handles POST /api/v1/push/unsubscribe (public)
func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	var req UnsubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.push.Unsubscribe(c.Context(), req.Endpoint); err != nil {
		return response.InternalServerError(c, "Failed to remove subscription")
	}

	return response.SuccessWithMessage(c, "Subscription removed", nil)
}

// ListSubscriptions handles GET /api/v1/push/subscriptions (admin)
func (h *PushHandler) ListSubscriptions(c *fiber.Ctx) error {
	subs, err := h.push.ListSubscriptions(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list subscriptions")
	}

	return response.Success(c, subs)
}

// Broadcast handles POST /api/v1/push/broadcast (admin). Used to verify the
// push pipeline end to end.
func (h *PushHandler) Broadcast(c *fiber.Ctx) error {
	if !h.push.IsConfigured() {
		return response.InternalServerError(c, "Push notifications are not configured")
	}

	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	sent, err := h.push.Broadcast(c.Context(), services.PushPayload{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to broadcast notification")
	}

	return response.SuccessWithMessage(c, "Notification broadcast", fiber.Map{"sent": sent})
}
