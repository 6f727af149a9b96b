// Package notifier pushes generated report texts to an external channel.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendAttempts = 3

// Webhook posts report texts as JSON to a configured endpoint.
type Webhook struct {
	URL     string
	Channel string
	Client  *http.Client
}

func NewWebhook(url, channel string) *Webhook {
	return &Webhook{URL: url, Channel: channel, Client: &http.Client{Timeout: 15 * time.Second}}
}

// Send delivers one text message, with up to 3 attempts and linear backoff.
func (w *Webhook) Send(ctx context.Context, text string) error {
	if w.URL == "" {
		return fmt.Errorf("webhook url not configured")
	}
	payload := map[string]any{
		"channel": w.Channel,
		"text":    text,
	}
	body, _ := json.Marshal(payload)

	var lastErr error
	for i := 0; i < sendAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := w.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("webhook status=%d", resp.StatusCode)
	}
	return lastErr
}
