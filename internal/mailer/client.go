package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when the relay public key is absent.
// Email is best-effort throughout the app, so callers treat this as a
// skipped send, never as a reason to fail an RSVP.
var ErrNotConfigured = errors.New("email relay public key not configured")

// Client talks to the transactional-email relay. The relay takes a
// template identifier, a recipient buried in the template params, and
// a flat map of template variables; it renders and sends the message
// itself.
type Client struct {
	baseURL   string
	serviceID string
	publicKey string
	client    *http.Client
	log       zerolog.Logger
}

// NewClient creates a relay client. An empty publicKey leaves it
// unconfigured; sends then fail with ErrNotConfigured.
func NewClient(baseURL, serviceID, publicKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		serviceID: serviceID,
		publicKey: publicKey,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       zerolog.New(os.Stdout).With().Str("component", "EmailRelay").Logger(),
	}
}

// Configured reports whether the relay credentials are present.
func (c *Client) Configured() bool {
	return c.serviceID != "" && c.publicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send dispatches one message through the given template.
func (c *Client) Send(ctx context.Context, templateID string, params map[string]string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     templateID,
		UserID:         c.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1.0/email/send", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay request failed: status %d: %s", resp.StatusCode, string(detail))
	}

	c.log.Debug().Str("template", templateID).Str("to", params["to_email"]).Msg("Message dispatched")
	return nil
}
