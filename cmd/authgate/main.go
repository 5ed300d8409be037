// Command authgate runs the Mission Control authentication gateway: an
// email one-time-code login front that mints store-backed sessions and
// hands authenticated callers off to the downstream gateway.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openclaw/authgate"
	"github.com/openclaw/authgate/clientstate"
	"github.com/openclaw/authgate/internal/config"
	"github.com/openclaw/authgate/internal/web"
	"github.com/openclaw/authgate/sender"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New(".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis at %s unreachable: %w", cfg.RedisAddr, err)
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)

	mailSender, debugCodes := chooseSender(cfg, logger)
	if debugCodes {
		cfg.DebugExposeCodes = true
	}

	if len(cfg.AllowedEmails) == 0 {
		logger.Warn("ALLOWED_EMAILS is empty, every login will be rejected")
	}
	if cfg.GatewayToken == "" {
		logger.Warn("GATEWAY_TOKEN not configured, authenticated users get no gateway credential")
	}

	engineCfg := authgate.Config{
		Allowlist: cfg.AllowedEmails,
		Code: authgate.CodeConfig{
			Digits: 6,
			TTL:    cfg.CodeTTL,
		},
		RateLimit: authgate.RateLimitConfig{
			MaxRequests: cfg.RateLimitMax,
			Window:      cfg.RateLimitWindow,
		},
		Session: authgate.SessionConfig{
			TTL: cfg.SessionTTL,
		},
		Sender: authgate.SenderConfig{
			Timeout: cfg.SenderTimeout,
		},
		Gateway: authgate.GatewayConfig{
			Credential: cfg.GatewayToken,
		},
		Debug: authgate.DebugConfig{
			ExposeCodes: cfg.DebugExposeCodes,
		},
		Metrics: authgate.MetricsConfig{
			Enabled: true,
		},
	}

	engine, err := authgate.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithSender(mailSender).
		Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	states, err := newStateManager(cfg.CookieSecret, logger)
	if err != nil {
		return err
	}

	handler := web.NewHandler(engine, states, logger, web.Config{
		GatewayURL:   cfg.GatewayURL,
		CodeTTL:      cfg.CodeTTL,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SenderTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return rdb.Close()
}

// chooseSender picks the delivery channel from what is configured: SendGrid
// first, SMTP second, and the log sender as a development fallback. The
// fallback also turns on code exposure so a local login remains possible.
func chooseSender(cfg config.Config, logger *slog.Logger) (sender.Sender, bool) {
	switch {
	case cfg.SendGridAPIKey != "":
		logger.Info("using sendgrid delivery", "from", cfg.FromEmail)
		return sender.NewSendGrid(sender.SendGridConfig{
			APIKey:        cfg.SendGridAPIKey,
			FromEmail:     cfg.FromEmail,
			FromName:      cfg.FromName,
			Timeout:       cfg.SenderTimeout,
			RetryAttempts: cfg.SenderRetries,
		}), false
	case cfg.SMTPHost != "":
		logger.Info("using smtp delivery", "host", cfg.SMTPHost, "from", cfg.FromEmail)
		return sender.NewSMTP(sender.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Login:     cfg.SMTPLogin,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}), false
	default:
		logger.Warn("no delivery channel configured, codes will be logged and shown in the browser")
		return sender.NewLog(logger), true
	}
}

func newStateManager(secret string, logger *slog.Logger) (*clientstate.Manager, error) {
	if secret == "" {
		// An ephemeral secret keeps the service usable but invalidates all
		// cookies on restart. Set COOKIE_SECRET for anything durable.
		logger.Warn("COOKIE_SECRET not set, generating an ephemeral secret")
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
		return clientstate.NewManager(buf)
	}
	return clientstate.NewManager([]byte(secret))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
