package authgate

import (
	"errors"

	"github.com/openclaw/authgate/sender"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by authgate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client
	sender sender.Sender

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithSender describes the withsender operation and its observable behavior.
//
// WithSender does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSender(s sender.Sender) *Builder {
	b.sender = s
	return b
}

// WithAllowlist describes the withallowlist operation and its observable behavior.
//
// WithAllowlist does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAllowlist(identities []string) *Builder {
	b.config.Allowlist = append([]string(nil), identities...)
	return b
}

// WithGatewayCredential describes the withgatewaycredential operation and its observable behavior.
//
// WithGatewayCredential does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithGatewayCredential(credential string) *Builder {
	b.config.Gateway.Credential = credential
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.sender == nil {
		return nil, errors.New("notification sender required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:    cfg,
		redis:     b.redis,
		allowlist: NewAllowlist(cfg.Allowlist),
		limiter:   newIssuanceLimiter(b.redis, cfg.RateLimit),
		codes:     newPendingCodeStore(b.redis),
		sessions:  newSessionStore(b.redis),
		sender:    b.sender,
		metrics:   NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}
