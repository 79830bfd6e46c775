// Package config loads linbridge settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/h0rv/linbridge/internal/retry"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds every runtime setting. Cobra flags override individual fields
// after Load.
type Config struct {
	APIKey string `env:"LINEAR_API_KEY"`
	APIURL string `env:"LINEAR_API_URL" envDefault:"https://api.linear.app/graphql"`

	CacheTTL       time.Duration `env:"LINBRIDGE_CACHE_TTL" envDefault:"5m"`
	MaxRetries     int           `env:"LINBRIDGE_MAX_RETRIES" envDefault:"3"`
	MinBackoff     time.Duration `env:"LINBRIDGE_MIN_BACKOFF" envDefault:"1s"`
	MaxBackoff     time.Duration `env:"LINBRIDGE_MAX_BACKOFF" envDefault:"10s"`
	RequestTimeout time.Duration `env:"LINBRIDGE_REQUEST_TIMEOUT" envDefault:"30s"`

	LogLevel  slog.Level `env:"LINBRIDGE_LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LINBRIDGE_LOG_FORMAT" envDefault:"text"`

	// Empty disables the metrics listener
	MetricsAddr string `env:"LINBRIDGE_METRICS_ADDR"`
}

// Load reads the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads the given environment instead of the process one.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, errors.New("api url must not be empty"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries))
	}
	if c.MinBackoff <= 0 {
		errs = append(errs, fmt.Errorf("min backoff must be positive, got %s", c.MinBackoff))
	}
	if c.MinBackoff > c.MaxBackoff {
		errs = append(errs, fmt.Errorf("min backoff %s exceeds max backoff %s", c.MinBackoff, c.MaxBackoff))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.LogFormat != FormatText && c.LogFormat != FormatJSON {
		errs = append(errs, fmt.Errorf("unknown log format %q (want %q or %q)", c.LogFormat, FormatText, FormatJSON))
	}

	return errors.Join(errs...)
}

// RetryPolicy derives the retry policy from the backoff settings.
func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxRetries = c.MaxRetries
	p.MinDelay = c.MinBackoff
	p.MaxDelay = c.MaxBackoff
	return p
}
