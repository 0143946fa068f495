package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/infrastructure/metrics"
)

// LogNotifier writes notifications to the service log. It is the default
// when no webhook is configured.
type LogNotifier struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger, m *metrics.Metrics) *LogNotifier {
	return &LogNotifier{logger: logger, metrics: m}
}

// Notify logs the event.
func (n *LogNotifier) Notify(ctx context.Context, userID, email, name string, kind domain.EventKind, details map[string]string) error {
	n.logger.Info().
		Str("user_id", userID).
		Str("email", email).
		Str("event", string(kind)).
		Fields(map[string]interface{}{"details": details}).
		Msg("notification")

	if n.metrics != nil {
		n.metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
	}

	return nil
}

// WebhookNotifier posts notification events as JSON to an external
// endpoint. Delivery is best-effort; callers treat failures as
// non-fatal.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	metrics *metrics.Metrics
}

// NewWebhookNotifier creates a WebhookNotifier.
func NewWebhookNotifier(url string, timeout time.Duration, m *metrics.Metrics) *WebhookNotifier {
	return &WebhookNotifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
	}
}

type webhookPayload struct {
	UserID  string            `json:"user_id"`
	Email   string            `json:"email"`
	Name    string            `json:"name"`
	Event   string            `json:"event"`
	Details map[string]string `json:"details,omitempty"`
	SentAt  time.Time         `json:"sent_at"`
}

// Notify delivers the event to the webhook endpoint.
func (n *WebhookNotifier) Notify(ctx context.Context, userID, email, name string, kind domain.EventKind, details map[string]string) error {
	payload := webhookPayload{
		UserID:  userID,
		Email:   email,
		Name:    name,
		Event:   string(kind),
		Details: details,
		SentAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.fail(kind)
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.fail(kind)
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}

	if n.metrics != nil {
		n.metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
	}

	return nil
}

func (n *WebhookNotifier) fail(kind domain.EventKind) {
	if n.metrics != nil {
		n.metrics.NotificationsFailed.WithLabelValues(string(kind)).Inc()
	}
}
