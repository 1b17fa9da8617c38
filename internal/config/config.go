package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first and never overrides variables already set.
type Config struct {
	HTTPAddr        string        `env:"CALC_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"CALC_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxSessions     int           `env:"CALC_MAX_SESSIONS" envDefault:"1024"`
	Locale          string        `env:"CALC_LOCALE" envDefault:"en-US"`
	LogLevel        zapcore.Level `env:"CALC_LOG_LEVEL" envDefault:"info"`

	TelemetryEnabled bool `env:"CALC_TELEMETRY_ENABLED" envDefault:"true"`
	OTLPLogsEnabled  bool `env:"CALC_OTLP_LOGS_ENABLED" envDefault:"false"`
}

// Load reads .env, then the environment, and validates the result.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("CALC_HTTP_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("CALC_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("CALC_MAX_SESSIONS must not be negative, got %d", c.MaxSessions)
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	return nil
}

// Language parses Locale into a language tag.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid CALC_LOCALE %q: %w", c.Locale, err)
	}
	return tag, nil
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}
