package sender

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig defines a public type used by authgate APIs.
//
// SMTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SMTPConfig struct {
	Host      string
	Port      int
	Login     string
	Password  string
	FromEmail string
	FromName  string
}

// SMTP delivers codes over plain SMTP. Intended for deployments without a
// SendGrid account; TLS 1.2 is the floor.
type SMTP struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTP describes the newsmtp operation and its observable behavior.
//
// NewSMTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSMTP(cfg SMTPConfig) *SMTP {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Login, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &SMTP{
		dialer:   dialer,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *SMTP) Send(ctx context.Context, identity, code string) error {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	msg.SetAddressHeader("From", s.from, s.fromName)
	msg.SetHeader("To", identity)
	msg.SetHeader("Subject", messageSubject)
	msg.SetBody("text/plain", messageBody(code))

	// gomail has no context support; run the dial in a goroutine so the
	// engine's dispatch timeout still bounds the call.
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}
