package authgate

import (
	"context"
	"errors"
	"strings"

	"github.com/openclaw/authgate/internal"
)

// VerifyResult is returned by [Engine.VerifyCode] on success.
type VerifyResult struct {
	Identity  string
	SessionID string
}

// VerifyCode describes the verifycode operation and its observable behavior.
//
// VerifyCode may return an error when input validation, dependency calls, or security checks fail.
// VerifyCode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// pendingIdentity is the caller-held mid-verification marker; an empty value
// means the caller never reached PendingVerification and yields
// [ErrNoPendingLogin]. A wrong code and an expired or never-issued one are
// deliberately indistinguishable: both yield [ErrInvalidOrExpiredCode].
// On match the pending code is consumed (single-use) and a fresh session is
// minted with its own TTL.
func (e *Engine) VerifyCode(ctx context.Context, pendingIdentity, submittedCode string) (*VerifyResult, error) {
	if e == nil || e.codes == nil || e.sessions == nil {
		return nil, ErrEngineNotReady
	}

	identity := NormalizeIdentity(pendingIdentity)
	if identity == "" {
		return nil, ErrNoPendingLogin
	}

	submittedCode = strings.TrimSpace(submittedCode)
	if submittedCode == "" {
		return nil, ErrEmptyCode
	}

	if err := e.codes.Consume(ctx, identity, internal.HashCode(submittedCode)); err != nil {
		switch {
		case errors.Is(err, errCodeNotFound), errors.Is(err, errCodeMismatch):
			e.metricInc(MetricVerifyFailure)
			return nil, ErrInvalidOrExpiredCode
		default:
			return nil, err
		}
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return nil, err
	}
	sessionID := sid.String()

	if err := e.sessions.Save(ctx, sessionID, identity, e.config.Session.TTL); err != nil {
		return nil, err
	}

	e.metricInc(MetricVerifySuccess)
	e.metricInc(MetricSessionCreated)

	return &VerifyResult{
		Identity:  identity,
		SessionID: sessionID,
	}, nil
}
