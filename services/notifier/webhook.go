package notifier

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"clemfr/grantwatch/pkg/errors"
)

// WebhookNotifier implements Notifier by posting messages to a messaging
// webhook. Any 2xx response counts as delivered.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// webhookPayload is the message body the webhook expects
type webhookPayload struct {
	Text string `json:"text"`
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(webhookURL string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify posts a message to the webhook
func (n *WebhookNotifier) Notify(message string) error {
	body, err := json.Marshal(webhookPayload{Text: message})
	if err != nil {
		return errors.NewNotification("failed to marshal webhook payload", err)
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.NewNotification("failed to post to webhook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewNotification(
			"webhook returned status "+resp.Status+": "+string(respBody), nil)
	}

	return nil
}

// Close implements Notifier; the HTTP client holds no connection state worth
// closing.
func (n *WebhookNotifier) Close() error {
	return nil
}
