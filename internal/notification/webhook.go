package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"signal-enginev1/internal/model"
)

// WebhookNotifier posts alerts as JSON to an HTTP endpoint. Signal alerts
// carry the full sized signal so consumers get machine-readable prices and
// sizing, not just the formatted message.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// webhookPayload is the wire shape posted to the endpoint. Event is
// "signal" when a sized signal is attached and "report" otherwise.
type webhookPayload struct {
	Event   string             `json:"event"`
	Level   AlertLevel         `json:"level"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Signal  *model.SizedSignal `json:"signal,omitempty"`
	SentAt  string             `json:"sent_at"`
}

// NewWebhookNotifier creates a webhook notifier posting to url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *WebhookNotifier) Send(ctx context.Context, alert Alert) error {
	event := "report"
	if alert.Signal != nil {
		event = "signal"
	}
	body, err := json.Marshal(webhookPayload{
		Event:   event,
		Level:   alert.Level,
		Title:   alert.Title,
		Message: alert.Message,
		Signal:  alert.Signal,
		SentAt:  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}

	log.Printf("[webhook] sent alert to %s: %s", w.url, alert.Title)
	return nil
}
