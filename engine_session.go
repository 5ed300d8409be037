package authgate

import "context"

// IsLive describes the islive operation and its observable behavior.
//
// IsLive may return an error when input validation, dependency calls, or security checks fail.
// IsLive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A session identifier is live iff a record exists in the store for it;
// existence alone decides, content is not inspected.
func (e *Engine) IsLive(ctx context.Context, sessionID string) (bool, error) {
	if e == nil || e.sessions == nil {
		return false, ErrEngineNotReady
	}
	if sessionID == "" {
		return false, nil
	}
	return e.sessions.Exists(ctx, sessionID)
}

// SessionIdentity returns the identity bound to a live session, or
// [ErrSessionNotFound] when the session is absent or expired.
func (e *Engine) SessionIdentity(ctx context.Context, sessionID string) (string, error) {
	if e == nil || e.sessions == nil {
		return "", ErrEngineNotReady
	}
	if sessionID == "" {
		return "", ErrSessionNotFound
	}
	return e.sessions.Identity(ctx, sessionID)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Logout is idempotent: deleting an absent or already-deleted session is not
// an error, and the caller always ends up Anonymous.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if sessionID == "" {
		return nil
	}
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	e.metricInc(MetricLogout)
	return nil
}
