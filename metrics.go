package authgate

import "sync/atomic"

// MetricID defines a public type used by authgate APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricCodeIssued is an exported constant or variable used by the authentication gateway.
	MetricCodeIssued MetricID = iota
	// MetricLoginNotWhitelisted is an exported constant or variable used by the authentication gateway.
	MetricLoginNotWhitelisted
	// MetricLoginRateLimited is an exported constant or variable used by the authentication gateway.
	MetricLoginRateLimited
	// MetricDeliveryFailed is an exported constant or variable used by the authentication gateway.
	MetricDeliveryFailed
	// MetricVerifySuccess is an exported constant or variable used by the authentication gateway.
	MetricVerifySuccess
	// MetricVerifyFailure is an exported constant or variable used by the authentication gateway.
	MetricVerifyFailure
	// MetricSessionCreated is an exported constant or variable used by the authentication gateway.
	MetricSessionCreated
	// MetricLogout is an exported constant or variable used by the authentication gateway.
	MetricLogout

	metricCount
)

// Metrics defines a public type used by authgate APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricCount)),
	}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
