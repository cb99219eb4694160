// Package config loads gateway settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr           = ":3000"
	defaultSessionTimeout = 5 * time.Second
	defaultRateBurst      = 40
	defaultRatePerSec     = 20
)

// Config holds every runtime setting of the gateway process.
type Config struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string
	// AuthBackendURL is the base URL of the auth/marketplace backend. The
	// session lookup, the /api/ proxy and the BFF client all target it.
	AuthBackendURL string
	// AppUpstreamURL is the page-rendering upstream behind the gate.
	AppUpstreamURL string
	// SessionTimeout bounds the single session-lookup call per request.
	SessionTimeout time.Duration
	// RateBurst and RatePerSec configure the per-IP token bucket.
	RateBurst  int
	RatePerSec int
	// AllowedOrigins is the CORS allowlist. Origins outside it get no CORS
	// headers and therefore no credentialed cross-origin access.
	AllowedOrigins []string

	LogLevel string
	LogDev   bool
}

// Load reads .env (if present) and the FOODHUB_* environment variables.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Addr:           envOr("FOODHUB_ADDR", defaultAddr),
		AuthBackendURL: strings.TrimRight(os.Getenv("FOODHUB_AUTH_URL"), "/"),
		AppUpstreamURL: strings.TrimRight(os.Getenv("FOODHUB_APP_UPSTREAM"), "/"),
		SessionTimeout: defaultSessionTimeout,
		RateBurst:      defaultRateBurst,
		RatePerSec:     defaultRatePerSec,
		AllowedOrigins: splitList(os.Getenv("FOODHUB_ALLOWED_ORIGINS")),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogDev:         os.Getenv("LOG_DEV") == "1",
	}

	if raw := os.Getenv("FOODHUB_SESSION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("config: invalid FOODHUB_SESSION_TIMEOUT %q", raw)
		}
		cfg.SessionTimeout = d
	}
	var err error
	if cfg.RateBurst, err = envInt("FOODHUB_RATE_BURST", cfg.RateBurst); err != nil {
		return Config{}, err
	}
	if cfg.RatePerSec, err = envInt("FOODHUB_RATE_PER_SEC", cfg.RatePerSec); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.AuthBackendURL == "" {
		return errors.New("config: FOODHUB_AUTH_URL is required")
	}
	if _, err := url.ParseRequestURI(c.AuthBackendURL); err != nil {
		return fmt.Errorf("config: invalid FOODHUB_AUTH_URL: %w", err)
	}
	if c.AppUpstreamURL == "" {
		return errors.New("config: FOODHUB_APP_UPSTREAM is required")
	}
	if _, err := url.ParseRequestURI(c.AppUpstreamURL); err != nil {
		return fmt.Errorf("config: invalid FOODHUB_APP_UPSTREAM: %w", err)
	}
	if c.RateBurst <= 0 || c.RatePerSec <= 0 {
		return errors.New("config: rate limit values must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimRight(part, "/"))
		}
	}
	return out
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return v, nil
}
