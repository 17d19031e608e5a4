package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured indicates no webhook URL was supplied; dispatch is
// skipped without a network attempt.
var ErrNotConfigured = errors.New("alerting: webhook url not configured")

// DeliveryError reports a webhook endpoint rejecting the payload.
type DeliveryError struct {
	Status int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook rejected payload: status %d", e.Status)
}

// Notifier delivers one payload per invocation.
type Notifier interface {
	Notify(ctx context.Context, payload Payload) error
}

// WebhookNotifier posts payloads to a Slack-compatible incoming webhook.
// At most one delivery attempt is made per call; there is no retry and no
// durable outbox, so a rejected batch is lost until the next run.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewWebhookNotifier constructs a webhook notifier. An empty url is a
// valid NotConfigured state rather than an error.
func NewWebhookNotifier(url string, timeout time.Duration, logger zerolog.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "alert_webhook").Logger(),
	}
}

// Notify issues a single POST carrying the full batch. Any 2xx response
// counts as delivered; everything else, including transport failures, is a
// rejection.
func (n *WebhookNotifier) Notify(ctx context.Context, payload Payload) error {
	if n.url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{Status: resp.StatusCode}
	}

	n.logger.Info().
		Int("alerts", len(payload.Attachments)).
		Str("channel", payload.Channel).
		Msg("alert batch delivered")
	return nil
}

var _ Notifier = (*WebhookNotifier)(nil)
