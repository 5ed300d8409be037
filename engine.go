package authgate

import (
	"context"

	"github.com/openclaw/authgate/sender"
	"github.com/redis/go-redis/v9"
)

// Engine defines a public type used by authgate APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Every Engine decision re-reads the store: no store value is cached across
// requests, so concurrent requests for the same identity coordinate only
// through Redis's own per-key atomicity.
type Engine struct {
	config    Config
	redis     *redis.Client
	allowlist *Allowlist
	limiter   *issuanceLimiter
	codes     *pendingCodeStore
	sessions  *sessionStore
	sender    sender.Sender
	metrics   *Metrics
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// GatewayCredential returns the configured downstream hand-off credential,
// or the empty string when none is configured.
func (e *Engine) GatewayCredential() string {
	if e == nil {
		return ""
	}
	return e.config.Gateway.Credential
}

// HealthStatus is the informational health report: store reachability, the
// size of the configured allow-list, and whether a downstream gateway
// credential is configured. Producing it has no side effects.
type HealthStatus struct {
	StoreReachable              bool
	AllowedIdentities           int
	GatewayCredentialConfigured bool
}

// Health describes the health operation and its observable behavior.
//
// Health does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{}
	if e == nil {
		return status
	}

	status.AllowedIdentities = e.allowlist.Size()
	status.GatewayCredentialConfigured = e.config.Gateway.Credential != ""
	if e.redis != nil {
		status.StoreReachable = e.redis.Ping(ctx).Err() == nil
	}
	return status
}
