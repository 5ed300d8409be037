package authgate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// mockSender records dispatched codes and can be told to fail.
type mockSender struct {
	mu       sync.Mutex
	sent     []sentCode
	failWith error
}

type sentCode struct {
	identity string
	code     string
}

func (s *mockSender) Send(ctx context.Context, identity, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.sent = append(s.sent, sentCode{identity: identity, code: code})
	return nil
}

func (s *mockSender) lastCode(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("no code was dispatched")
	}
	return s.sent[len(s.sent)-1].code
}

func (s *mockSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Allowlist = []string{"alice@example.com", "Bob@Example.com"}
	cfg.Code.TTL = 10 * time.Minute
	cfg.RateLimit.MaxRequests = 3
	cfg.RateLimit.Window = time.Hour
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, cfg Config, ms *mockSender) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithSender(ms).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

var errSendBoom = errors.New("send boom")
