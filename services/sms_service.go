package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// SMSClient handles communication with the SMS gateway (Fast2SMS-compatible
// JSON API). Delivery is best-effort: callers log failures and move on.
type SMSClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// SMSResponse represents the response from the SMS gateway
type SMSResponse struct {
	Return    bool     `json:"return"`
	RequestID string   `json:"request_id,omitempty"`
	Message   []string `json:"message,omitempty"`
}

// NewSMSClient creates a new SMS client
func NewSMSClient(baseURL, apiKey string) *SMSClient {
	if baseURL == "" {
		baseURL = "https://www.fast2sms.com/dev/bulkV2"
	}

	return &SMSClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured checks if the gateway credentials are present
func (c *SMSClient) IsConfigured() bool {
	return c.APIKey != ""
}

// Send delivers a text message to one phone number
func (c *SMSClient) Send(ctx context.Context, phone, message string) error {
	if !c.IsConfigured() {
		log.Printf("SMS gateway not configured. Message for %s dropped", phone)
		return fmt.Errorf("SMS gateway not configured")
	}

	payload := map[string]string{
		"route":   "q",
		"numbers": phone,
		"message": message,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var smsResp SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&smsResp); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}

	if !smsResp.Return {
		return fmt.Errorf("SMS gateway rejected message: %v", smsResp.Message)
	}

	return nil
}

// SendCredentials delivers a generated username/password pair to a resident
func (c *SMSClient) SendCredentials(ctx context.Context, phone, name, hostelID, username, password string) error {
	message := fmt.Sprintf(
		"Hello %s, your hostel registration is approved. Hostel ID: %s. Login: %s / %s. Please change your password after first login.",
		name, hostelID, username, password)
	return c.Send(ctx, phone, message)
}
