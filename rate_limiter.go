package authgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "rate:"

func rateKey(identity string) string {
	return rateKeyPrefix + identity
}

// issuanceLimiter enforces the per-identity code issuance quota using a
// fixed-window Redis counter. The window is anchored at the first request of
// the window, so a burst just before rollover can admit a second burst just
// after; this imprecision is part of the contract, not a bug.
type issuanceLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

func newIssuanceLimiter(redisClient *redis.Client, cfg RateLimitConfig) *issuanceLimiter {
	return &issuanceLimiter{
		redis:  redisClient,
		config: cfg,
	}
}

// TryConsume records an issuance attempt for the identity. It returns nil
// when the attempt is within quota, a [*RateLimitedError] carrying the
// remaining window duration when the quota is exhausted, and a wrapped
// [ErrStoreUnavailable] when the store cannot be reached. A rejected attempt
// does not mutate the counter.
func (l *issuanceLimiter) TryConsume(ctx context.Context, identity string) error {
	key := rateKey(identity)

	created, err := l.redis.SetNX(ctx, key, 1, l.config.Window).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if created {
		return nil
	}

	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Window lapsed between SetNX and Get; start a fresh one.
			return l.incrementWithTTL(ctx, key)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if count >= int64(l.config.MaxRequests) {
		return &RateLimitedError{RetryAfter: l.retryAfter(ctx, key)}
	}

	return l.incrementWithTTL(ctx, key)
}

func (l *issuanceLimiter) incrementWithTTL(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	return nil
}

func (l *issuanceLimiter) retryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return l.config.Window
	}
	return ttl
}
