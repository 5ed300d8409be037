package authgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openclaw/authgate/internal"
)

func TestCodeStoreConsumeMatch(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newPendingCodeStore(rdb)
	digest := internal.HashCode("123456")

	if err := store.Save(ctx, "alice@example.com", digest, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Consume(ctx, "alice@example.com", digest); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	// Single-use: the key must be gone after a successful consume.
	if mr.Exists(codeKey("alice@example.com")) {
		t.Error("code key survived a successful consume")
	}
	if err := store.Consume(ctx, "alice@example.com", digest); !errors.Is(err, errCodeNotFound) {
		t.Errorf("replay = %v, want errCodeNotFound", err)
	}
}

func TestCodeStoreConsumeMismatchKeepsCode(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newPendingCodeStore(rdb)

	if err := store.Save(ctx, "alice@example.com", internal.HashCode("123456"), time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err := store.Consume(ctx, "alice@example.com", internal.HashCode("000000"))
	if !errors.Is(err, errCodeMismatch) {
		t.Fatalf("Consume = %v, want errCodeMismatch", err)
	}

	// A wrong guess must not burn the real code.
	if err := store.Consume(ctx, "alice@example.com", internal.HashCode("123456")); err != nil {
		t.Fatalf("correct code after mismatch failed: %v", err)
	}
}

func TestCodeStoreConsumeMissing(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newPendingCodeStore(rdb)
	err := store.Consume(context.Background(), "alice@example.com", internal.HashCode("123456"))
	if !errors.Is(err, errCodeNotFound) {
		t.Fatalf("Consume = %v, want errCodeNotFound", err)
	}
}

func TestCodeStoreExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newPendingCodeStore(rdb)
	digest := internal.HashCode("123456")

	if err := store.Save(ctx, "alice@example.com", digest, time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := store.Consume(ctx, "alice@example.com", digest); !errors.Is(err, errCodeNotFound) {
		t.Fatalf("expired consume = %v, want errCodeNotFound", err)
	}
}

func TestCodeStoreSaveOverwrites(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := newPendingCodeStore(rdb)

	if err := store.Save(ctx, "alice@example.com", internal.HashCode("111111"), time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "alice@example.com", internal.HashCode("222222"), time.Minute); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if err := store.Consume(ctx, "alice@example.com", internal.HashCode("111111")); !errors.Is(err, errCodeMismatch) {
		t.Errorf("stale code = %v, want errCodeMismatch", err)
	}
	if err := store.Consume(ctx, "alice@example.com", internal.HashCode("222222")); err != nil {
		t.Errorf("latest code rejected: %v", err)
	}
}
