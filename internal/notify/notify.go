// Package notify posts selected articles to a user-configured automation
// webhook (e.g. an n8n endpoint). One POST per call, no retry, no queuing.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Payload is the fixed webhook body shape. Field names are a compatibility
// surface with existing automations.
type Payload struct {
	Project   string `json:"project"`
	FeedURL   string `json:"feed_url"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Timestamp string `json:"timestamp"`
}

type Notifier struct {
	client *http.Client
}

// NewNotifier creates a webhook notifier with the given request timeout.
func NewNotifier(timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{client: &http.Client{Timeout: timeout}}
}

// Notify posts the payload to endpoint. An unset endpoint, a transport
// failure, or a non-200 response all surface as an error carrying the
// cause; the caller decides how to show it.
func (n *Notifier) Notify(ctx context.Context, endpoint string, p Payload) error {
	if strings.TrimSpace(endpoint) == "" {
		return errors.New("webhook endpoint not configured")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
