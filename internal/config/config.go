// Package config loads the service configuration from the environment,
// optionally seeded from a dotenv file. All values are read once at process
// start and passed explicitly into component constructors; nothing reads the
// environment mid-request.
package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:5001"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AllowedEmails []string `env:"ALLOWED_EMAILS" envSeparator:","`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromEmail      string `env:"FROM_EMAIL" envDefault:"noreply@mission.daatan.com"`
	FromName       string `env:"FROM_NAME"  envDefault:"Mission Control"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPLogin    string `env:"SMTP_LOGIN"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	GatewayToken string `env:"GATEWAY_TOKEN"`
	GatewayURL   string `env:"GATEWAY_URL" envDefault:"http://127.0.0.1:18789"`

	CookieSecret string `env:"COOKIE_SECRET"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	CodeTTL         time.Duration `env:"CODE_TTL"          envDefault:"10m"`
	SessionTTL      time.Duration `env:"SESSION_TTL"       envDefault:"24h"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"    envDefault:"3"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1h"`
	SenderTimeout   time.Duration `env:"SENDER_TIMEOUT"    envDefault:"30s"`
	SenderRetries   int           `env:"SENDER_RETRIES"    envDefault:"2"`

	// DebugExposeCodes surfaces raw verification codes on the login page.
	// Never enable it where a real delivery channel is configured.
	DebugExposeCodes bool `env:"DEBUG_EXPOSE_CODES" envDefault:"false"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}
