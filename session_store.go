package authgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// sessionStore owns the session:{id} keyspace. A key that exists is a live
// session; liveness is existence, nothing more. TTL expiry is the store's
// job and needs no reaper here.
type sessionStore struct {
	redis *redis.Client
}

func newSessionStore(redisClient *redis.Client) *sessionStore {
	return &sessionStore{redis: redisClient}
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *sessionStore) Save(ctx context.Context, sessionID, identity string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, sessionKey(sessionID), identity, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Exists reports whether a session record is present for the identifier.
func (s *sessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n == 1, nil
}

// Identity returns the identity bound to a live session, or
// [ErrSessionNotFound] when the record is absent or expired.
func (s *sessionStore) Identity(ctx context.Context, sessionID string) (string, error) {
	identity, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return identity, nil
}

// Delete removes a session record. Deleting an absent record is not an
// error; the operation is idempotent.
func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
