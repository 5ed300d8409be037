package sender

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendGridSendAccepted(t *testing.T) {
	var captured sendGridPayload
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGrid(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "noreply@example.com",
		FromName:  "Mission Control",
		Timeout:   5 * time.Second,
		Endpoint:  srv.URL,
	})

	err := s.Send(context.Background(), "alice@example.com", "123456")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, captured.Personalizations, 1)
	require.Len(t, captured.Personalizations[0].To, 1)
	assert.Equal(t, "alice@example.com", captured.Personalizations[0].To[0].Email)
	assert.Equal(t, "noreply@example.com", captured.From.Email)
	assert.Equal(t, messageSubject, captured.Subject)
	require.Len(t, captured.Content, 1)
	assert.Contains(t, captured.Content[0].Value, "123456")
	assert.NotEmpty(t, captured.CustomArgs["message_ref"])
}

func TestSendGridSendNonAcceptedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewSendGrid(SendGridConfig{
		APIKey:    "bad-key",
		FromEmail: "noreply@example.com",
		Timeout:   5 * time.Second,
		Endpoint:  srv.URL,
	})

	err := s.Send(context.Background(), "alice@example.com", "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridNoRetryOnDefinitiveStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSendGrid(SendGridConfig{
		APIKey:        "test-key",
		FromEmail:     "noreply@example.com",
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
		Endpoint:      srv.URL,
	})

	err := s.Send(context.Background(), "alice@example.com", "123456")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a definitive SendGrid answer must not be retried")
}

func TestSendGridContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGrid(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "noreply@example.com",
		Endpoint:  srv.URL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, "alice@example.com", "123456")
	require.Error(t, err)
}

func TestMessageBodyContainsCode(t *testing.T) {
	body := messageBody("987654")
	assert.Contains(t, body, "987654")
}
