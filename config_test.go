package authgate

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"digits too few", func(c *Config) { c.Code.Digits = 4 }, true},
		{"digits too many", func(c *Config) { c.Code.Digits = 12 }, true},
		{"zero code ttl", func(c *Config) { c.Code.TTL = 0 }, true},
		{"zero rate max", func(c *Config) { c.RateLimit.MaxRequests = 0 }, true},
		{"negative window", func(c *Config) { c.RateLimit.Window = -time.Minute }, true},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }, true},
		{"zero sender timeout", func(c *Config) { c.Sender.Timeout = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate accepted an invalid config")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate rejected a valid config: %v", err)
			}
		})
	}
}

func TestCloneConfigIsolatesAllowlist(t *testing.T) {
	src := defaultConfig()
	src.Allowlist = []string{"alice@example.com"}

	clone := cloneConfig(src)
	clone.Allowlist[0] = "mallory@example.com"

	if src.Allowlist[0] != "alice@example.com" {
		t.Error("clone shares the allow-list backing array")
	}
}

func TestBuilderRequirements(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	if _, err := New().WithSender(&mockSender{}).Build(); err == nil {
		t.Error("Build succeeded without redis")
	}
	if _, err := New().WithRedis(rdb).Build(); err == nil {
		t.Error("Build succeeded without sender")
	}

	b := New().WithRedis(rdb).WithSender(&mockSender{})
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Error("builder allowed reuse")
	}
}

func TestBuilderGatewayCredential(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine, err := New().
		WithRedis(rdb).
		WithSender(&mockSender{}).
		WithGatewayCredential("secret-token").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if engine.GatewayCredential() != "secret-token" {
		t.Errorf("GatewayCredential = %q", engine.GatewayCredential())
	}
}
