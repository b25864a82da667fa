package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	APIKey           string `env:"API_KEY,required"    validate:"required,min=16"`
	JWTSecret        string `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"60" validate:"min=1,max=1440"`

	RateLimitDisabled bool `env:"RATE_LIMIT_DISABLED" envDefault:"false"`

	ReconcileCron string `env:"RECONCILE_CRON" envDefault:"@hourly" validate:"required"`

	// Recovery email delivery. ENV=local logs emails instead of sending them.
	// When RESEND_API_KEY is set the Resend API is used, otherwise SMTP.
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPass      string `env:"SMTP_PASS"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	ResendFrom    string `env:"RESEND_FROM"`
	ResetLinkBase string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
