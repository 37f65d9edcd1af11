package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Email is one outbound transactional message
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers e-mail
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// ResendMailer sends e-mail through the Resend HTTP API. Consecutive failures
// open a circuit breaker so a provider outage does not tie up the workers.
type ResendMailer struct {
	apiKey string
	apiURL string
	from   string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[string]
	log    *slog.Logger
}

// NewResendMailer creates a mailer posting to apiURL with apiKey
func NewResendMailer(apiKey, apiURL, from string, log *slog.Logger) *ResendMailer {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("email circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &ResendMailer{
		apiKey: apiKey,
		apiURL: apiURL,
		from:   from,
		client: &http.Client{Timeout: 15 * time.Second},
		cb:     cb,
		log:    log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send implements Mailer
func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	id, err := m.cb.Execute(func() (string, error) {
		return m.post(ctx, email)
	})
	if err != nil {
		return fmt.Errorf("send email %q: %w", email.Subject, err)
	}

	m.log.Info("email sent", "id", id, "subject", email.Subject)
	return nil
}

func (m *ResendMailer) post(ctx context.Context, email Email) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode resend response: %w", err)
	}
	return out.ID, nil
}

// LogMailer stands in when no e-mail provider is configured; it only logs
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.log.Warn("email service not configured, skipping email", "to", email.To, "subject", email.Subject)
	return nil
}
