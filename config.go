package authgate

import (
	"errors"
	"time"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Allowlist []string
	Code      CodeConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
	Sender    SenderConfig
	Gateway   GatewayConfig
	Debug     DebugConfig
	Metrics   MetricsConfig
}

/*
====================================
CODE CONFIG
====================================
*/

// CodeConfig defines a public type used by authgate APIs.
//
// CodeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CodeConfig struct {
	Digits int
	TTL    time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig tunes the per-identity issuance quota. The window is a
// fixed window anchored at the first request; it is not a sliding log.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// SessionConfig defines a public type used by authgate APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	TTL time.Duration
}

// SenderConfig bounds the outbound delivery round-trip. A dispatch that does
// not complete within Timeout surfaces as [ErrDeliveryFailed].
type SenderConfig struct {
	Timeout time.Duration
}

// GatewayConfig carries the static downstream gateway credential. The engine
// never inspects the credential; it only reports through [Engine.Health]
// whether one is configured.
type GatewayConfig struct {
	Credential string
}

// DebugConfig gates diagnostic capabilities. ExposeCodes surfaces the raw
// generated code in [LoginResult]; it must never be enabled where a real
// delivery channel is configured, since anyone who can read the response can
// then log in as any whitelisted identity.
type DebugConfig struct {
	ExposeCodes bool
}

// MetricsConfig defines a public type used by authgate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Code: CodeConfig{
			Digits: 6,
			TTL:    10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 3,
			Window:      time.Hour,
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Sender: SenderConfig{
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Allowlist != nil {
		out.Allowlist = append([]string(nil), cfg.Allowlist...)
	}
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	if c.Code.Digits < 6 || c.Code.Digits > 10 {
		return errors.New("Code.Digits must be between 6 and 10")
	}
	if c.Code.TTL <= 0 {
		return errors.New("Code.TTL must be positive")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("RateLimit.MaxRequests must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit.Window must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session.TTL must be positive")
	}
	if c.Sender.Timeout <= 0 {
		return errors.New("Sender.Timeout must be positive")
	}
	return nil
}
