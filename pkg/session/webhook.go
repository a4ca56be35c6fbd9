package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookMessenger delivers prompts to the bot front-end over HTTP. The bot
// relays each message to the user's private channel and feeds replies back
// through the session event endpoint; the session id in the opening prompt
// tells it where.
type WebhookMessenger struct {
	URL    string
	Client *http.Client
}

func NewWebhookMessenger(url string) *WebhookMessenger {
	return &WebhookMessenger{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (m *WebhookMessenger) Send(userID, text string) error {
	body, err := json.Marshal(map[string]string{"user_id": userID, "text": text})
	if err != nil {
		return err
	}
	resp, err := m.Client.Post(m.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to bot webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("bot webhook returned %s", resp.Status)
	}
	return nil
}
