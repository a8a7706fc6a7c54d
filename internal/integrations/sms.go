package integrations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"camp-management-backend/internal/config"
)

// SMSClient talks to the Arkesel SMS gateway.
type SMSClient struct {
	apiKey     string
	senderID   string
	baseURL    string
	httpClient *http.Client
}

func NewSMSClient(cfg *config.Config) *SMSClient {
	return &SMSClient{
		apiKey:   cfg.SMSAPIKey,
		senderID: cfg.SMSSenderID,
		baseURL:  cfg.SMSBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type smsPayload struct {
	Sender     string   `json:"sender"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
}

func (c *SMSClient) SendSMS(phoneNumber, message string) error {
	if c.apiKey == "" {
		return fmt.Errorf("SMS API key is not configured")
	}

	body, err := json.Marshal(smsPayload{
		Sender:     c.senderID,
		Message:    message,
		Recipients: []string{phoneNumber},
	})
	if err != nil {
		return fmt.Errorf("failed to encode SMS payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	return nil
}
