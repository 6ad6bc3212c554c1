// Package sms sends customer text messages through an HTTP SMS gateway.
// Delivery is best-effort throughout the application: a failed SMS never
// fails the operation that triggered it.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chauffeurtop_backend/platform/config"
	"chauffeurtop_backend/platform/logger"
	"chauffeurtop_backend/platform/phone"
)

// Client talks to the SMS gateway. A nil Client is safe to use and sends
// nothing, which is how disabled SMS is modelled.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
	log     *logger.Logger
}

type gatewayRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// NewClient creates a gateway client, or nil when SMS is disabled.
func NewClient(cfg config.SMSConfig, log *logger.Logger) *Client {
	if !cfg.GetSMSEnabled() || cfg.GetSMSAPIURL() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetSMSAPIURL(), "/"),
		apiKey:  cfg.GetSMSAPIKey(),
		from:    cfg.GetSMSFromNumber(),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// SendMessage delivers a single text message.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return nil
	}

	normalized := phone.NormalizeE164(phoneNumber)

	payload := gatewayRequest{
		To:      normalized,
		From:    c.from,
		Message: message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	url := fmt.Sprintf("%s/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("sms sent", "to", normalized)
	return nil
}
