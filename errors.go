package authgate

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotWhitelisted is an exported constant or variable used by the authentication gateway.
	ErrNotWhitelisted = errors.New("identity not whitelisted")
	// ErrRateLimited is an exported constant or variable used by the authentication gateway.
	ErrRateLimited = errors.New("code issuance rate limited")
	// ErrDeliveryFailed is an exported constant or variable used by the authentication gateway.
	ErrDeliveryFailed = errors.New("verification code delivery failed")
	// ErrNoPendingLogin is an exported constant or variable used by the authentication gateway.
	ErrNoPendingLogin = errors.New("no pending login")
	// ErrEmptyCode is an exported constant or variable used by the authentication gateway.
	ErrEmptyCode = errors.New("empty verification code")
	// ErrInvalidOrExpiredCode is an exported constant or variable used by the authentication gateway.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	// ErrSessionNotFound is an exported constant or variable used by the authentication gateway.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication gateway.
	ErrStoreUnavailable = errors.New("ephemeral store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication gateway.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// RateLimitedError reports a rejected issuance attempt together with the
// time remaining until the current window lapses. It matches
// [ErrRateLimited] under errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("code issuance rate limited, retry after %s", e.RetryAfter)
}

// Is reports whether target is [ErrRateLimited].
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
