package authgate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/openclaw/authgate/internal"
	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "code:"

var (
	errCodeNotFound = errors.New("pending code not found")
	errCodeMismatch = errors.New("pending code mismatch")
)

func codeKey(identity string) string {
	return codeKeyPrefix + identity
}

// pendingCodeStore owns the code:{identity} keyspace. At most one pending
// code exists per identity: Save overwrites unconditionally, so only the
// most-recently-stored digest is ever valid.
type pendingCodeStore struct {
	redis *redis.Client
}

func newPendingCodeStore(redisClient *redis.Client) *pendingCodeStore {
	return &pendingCodeStore{redis: redisClient}
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *pendingCodeStore) Save(ctx context.Context, identity string, digest [32]byte, ttl time.Duration) error {
	if err := s.redis.Set(ctx, codeKey(identity), internal.EncodeDigest(digest), ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Consume compares the provided digest against the stored one and deletes
// the key on match, all under WATCH so a replayed code cannot win a race
// against its own deletion. A mismatch leaves the stored code untouched.
// Missing-key and mismatch outcomes are reported as distinct internal errors
// but must be collapsed before they reach a caller.
func (s *pendingCodeStore) Consume(ctx context.Context, identity string, providedDigest [32]byte) error {
	const maxRetries = 4
	key := codeKey(identity)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			encoded, err := tx.Get(ctx, key).Result()
			if err != nil {
				return err
			}

			stored, err := internal.DecodeDigest(encoded)
			if err != nil {
				return err
			}

			if subtle.ConstantTimeCompare(stored[:], providedDigest[:]) != 1 {
				return errCodeMismatch
			}

			// Single-use: the digest is gone before the session exists.
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return errCodeNotFound
			case errors.Is(err, errCodeMismatch):
				return errCodeMismatch
			default:
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}

		return nil
	}

	return errCodeNotFound
}
