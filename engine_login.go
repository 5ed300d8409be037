package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/openclaw/authgate/internal"
)

// LoginResult is returned by [Engine.BeginLogin] on successful dispatch.
type LoginResult struct {
	// DebugCode carries the raw generated code when Debug.ExposeCodes is
	// enabled. It is always empty otherwise.
	DebugCode string
}

// BeginLogin describes the beginlogin operation and its observable behavior.
//
// BeginLogin may return an error when input validation, dependency calls, or security checks fail.
// BeginLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The sequence is: allow-list gate, issuance rate limit, code generation,
// digest storage (overwriting any prior pending code for the identity),
// sender dispatch. A rejected identity creates no store keys. A failed
// dispatch surfaces as [ErrDeliveryFailed]; the caller must restart from
// scratch in that case, since no pending marker was handed out.
func (e *Engine) BeginLogin(ctx context.Context, identity string) (*LoginResult, error) {
	if e == nil || e.codes == nil || e.limiter == nil || e.sender == nil {
		return nil, ErrEngineNotReady
	}

	identity = NormalizeIdentity(identity)
	if !e.allowlist.Contains(identity) {
		e.metricInc(MetricLoginNotWhitelisted)
		return nil, ErrNotWhitelisted
	}

	if err := e.limiter.TryConsume(ctx, identity); err != nil {
		if errors.Is(err, ErrRateLimited) {
			e.metricInc(MetricLoginRateLimited)
		}
		return nil, err
	}

	code, err := internal.NewCode(e.config.Code.Digits)
	if err != nil {
		return nil, err
	}

	if err := e.codes.Save(ctx, identity, internal.HashCode(code), e.config.Code.TTL); err != nil {
		return nil, err
	}

	// The dispatch round-trip is the only long pole in the request; bound it
	// so a slow outbound channel cannot hold the caller indefinitely.
	sendCtx, cancel := context.WithTimeout(ctx, e.config.Sender.Timeout)
	defer cancel()

	if err := e.sender.Send(sendCtx, identity, code); err != nil {
		e.metricInc(MetricDeliveryFailed)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	e.metricInc(MetricCodeIssued)

	result := &LoginResult{}
	if e.config.Debug.ExposeCodes {
		result.DebugCode = code
	}
	code = ""

	return result, nil
}
