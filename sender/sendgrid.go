package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultSendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"
	defaultRetryWaitMax     = 5 * time.Second
)

// SendGridConfig defines a public type used by authgate APIs.
//
// SendGridConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SendGridConfig struct {
	APIKey        string
	FromEmail     string
	FromName      string
	Timeout       time.Duration
	RetryAttempts int

	// Endpoint overrides the SendGrid mail-send URL; tests point it at a
	// local server. Empty means the production endpoint.
	Endpoint string
}

// SendGrid delivers codes through the SendGrid v3 mail-send API. Delivery
// succeeds iff SendGrid answers 202; any other status or transport error is
// a failure.
type SendGrid struct {
	client   *retryablehttp.Client
	apiKey   string
	from     string
	fromName string
	endpoint string
}

// NewSendGrid describes the newsendgrid operation and its observable behavior.
//
// NewSendGrid does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSendGrid(cfg SendGridConfig) *SendGrid {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	if cfg.Timeout > 0 {
		retryClient.HTTPClient.Timeout = cfg.Timeout
	}
	retryClient.Logger = nil

	// Retry only transport-level failures. A non-2xx from SendGrid is a
	// definitive answer, not something to hammer.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return false, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultSendGridEndpoint
	}

	return &SendGrid{
		client:   retryClient,
		apiKey:   cfg.APIKey,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		endpoint: endpoint,
	}
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
	CustomArgs       map[string]string         `json:"custom_args,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *SendGrid) Send(ctx context.Context, identity, code string) error {
	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: identity}}},
		},
		From:    sendGridAddress{Email: s.from, Name: s.fromName},
		Subject: messageSubject,
		Content: []sendGridContent{
			{Type: "text/plain", Value: messageBody(code)},
		},
		CustomArgs: map[string]string{
			"message_ref": uuid.NewString(),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sendgrid payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		// Drain a bounded slice of the body for the error message only;
		// never echo it back to an end user.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, detail)
	}

	return nil
}
