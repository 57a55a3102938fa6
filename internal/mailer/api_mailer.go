package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sendRequest is the JSON body posted to the mail API.
type sendRequest struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	HTML    string    `json:"html"`
}

type address struct {
	Email string `json:"email"`
}

// sendResponse maps the provider's success response body.
type sendResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
}

// APIMailer delivers mail by POSTing to a transactional mail HTTP API.
// The base URL and token are injected from config so tests can point to a
// local stub server.
type APIMailer struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPIMailer(baseURL, token string, timeout time.Duration) *APIMailer {
	return &APIMailer{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts the message to the configured mail API and expects a 2xx
// response acknowledging acceptance.
func (m *APIMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendRequest{
		From:    address{Email: msg.From},
		To:      []address{{Email: msg.To}},
		Subject: msg.Subject,
		HTML:    msg.HTMLBody,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected mail API status: %d", resp.StatusCode)
	}

	var sendResp sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !sendResp.Success {
		return fmt.Errorf("mail API rejected message")
	}

	return nil
}

// compile-time check that APIMailer implements Mailer
var _ Mailer = (*APIMailer)(nil)
