// Package clientstate encodes the caller-held authentication state — the
// pending-identity marker and the session identifier — as a signed,
// tamper-evident token suitable for an HTTP cookie. The server keeps no
// affinity state: whatever the caller presents here is the whole of its
// claimed state, and the store-backed session record remains the source of
// truth for liveness.
package clientstate

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind defines a public type used by authgate APIs.
//
// Kind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Kind string

const (
	// KindPending marks a caller that is mid-verification.
	KindPending Kind = "pending"
	// KindSession marks a caller holding a minted session identifier.
	KindSession Kind = "session"
)

var (
	// ErrTokenInvalid is an exported constant or variable used by the authentication gateway.
	ErrTokenInvalid = errors.New("invalid state token")
)

// State is the decoded caller-held state. Exactly one of the two shapes is
// populated, selected by Kind: a pending marker carries PendingIdentity; a
// session state carries Identity and SessionID.
type State struct {
	Kind            Kind
	PendingIdentity string
	Identity        string
	SessionID       string
}

type stateClaims struct {
	Kind            string `json:"knd"`
	PendingIdentity string `json:"pid,omitempty"`
	Identity        string `json:"idn,omitempty"`
	SessionID       string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies caller-held state tokens with HS256.
type Manager struct {
	secret []byte
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(secret []byte) (*Manager, error) {
	if len(secret) < 32 {
		return nil, errors.New("state secret must be at least 32 bytes")
	}
	key := append([]byte(nil), secret...)
	return &Manager{secret: key}, nil
}

// IssuePending mints a mid-verification marker for an identity, valid for
// ttl (callers align this with the pending-code TTL).
func (m *Manager) IssuePending(identity string, ttl time.Duration) (string, error) {
	return m.issue(stateClaims{
		Kind:            string(KindPending),
		PendingIdentity: identity,
	}, ttl)
}

// IssueSession mints an authenticated state token binding the identity to
// its session identifier, valid for ttl (callers align this with the
// session TTL).
func (m *Manager) IssueSession(identity, sessionID string, ttl time.Duration) (string, error) {
	return m.issue(stateClaims{
		Kind:      string(KindSession),
		Identity:  identity,
		SessionID: sessionID,
	}, ttl)
}

func (m *Manager) issue(claims stateClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse describes the parse operation and its observable behavior.
//
// Parse may return an error when input validation, dependency calls, or security checks fail.
// Parse does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A token that fails signature, expiry, or shape checks yields
// [ErrTokenInvalid]; callers treat that the same as no state at all.
func (m *Manager) Parse(token string) (*State, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := &stateClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	state := &State{Kind: Kind(claims.Kind)}
	switch state.Kind {
	case KindPending:
		if claims.PendingIdentity == "" {
			return nil, ErrTokenInvalid
		}
		state.PendingIdentity = claims.PendingIdentity
	case KindSession:
		if claims.Identity == "" || claims.SessionID == "" {
			return nil, ErrTokenInvalid
		}
		state.Identity = claims.Identity
		state.SessionID = claims.SessionID
	default:
		return nil, ErrTokenInvalid
	}

	return state, nil
}
