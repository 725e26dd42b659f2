// Package config loads the service configuration from the environment,
// with a .env file as the development-time source. Every value is parsed
// and checked once at startup; an invalid value is fatal, and the
// resulting Config never changes afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nanotile/ai-document-writer/internal/validate"
)

// Config is the full configuration surface of the service.
type Config struct {
	Port      int
	DraftsDir string

	// Password protects the web deployment. Empty means open access, as in
	// a single-user LAN setup.
	Password string

	RateMaxRequests int
	RateWindow      time.Duration
	RateMaxClients  int

	SessionTimeout time.Duration

	// TrustProxy enables X-Forwarded-For as the client identity source.
	TrustProxy bool

	LogLevel string

	Limits validate.Limits
}

// Load reads configuration from a .env file (if present) and the process
// environment, returning an error on any value that fails to parse.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:            8090,
		DraftsDir:       defaultDraftsDir(),
		Password:        os.Getenv("WRITER_PASSWORD"),
		RateMaxRequests: 10,
		RateWindow:      time.Minute,
		RateMaxClients:  10000,
		SessionTimeout:  30 * time.Minute,
		LogLevel:        "info",
		Limits:          validate.Default(),
	}

	if v := os.Getenv("WRITER_DRAFTS_DIR"); v != "" {
		cfg.DraftsDir = v
	}
	if v := os.Getenv("WRITER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.Port, err = intVar("WRITER_PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.RateMaxRequests, err = intVar("WRITER_RATE_MAX", cfg.RateMaxRequests); err != nil {
		return Config{}, err
	}
	if cfg.RateMaxClients, err = intVar("WRITER_RATE_MAX_CLIENTS", cfg.RateMaxClients); err != nil {
		return Config{}, err
	}
	if cfg.RateWindow, err = durationVar("WRITER_RATE_WINDOW", cfg.RateWindow); err != nil {
		return Config{}, err
	}
	if cfg.SessionTimeout, err = durationVar("WRITER_SESSION_TIMEOUT", cfg.SessionTimeout); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = boolVar("WRITER_TRUST_PROXY", false); err != nil {
		return Config{}, err
	}

	for field := range cfg.Limits {
		name := "WRITER_LIMIT_" + envSuffix(field)
		if cfg.Limits[field], err = intVar(name, cfg.Limits[field]); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) check() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateMaxRequests < 1 {
		return fmt.Errorf("rate limit max requests must be positive, got %d", c.RateMaxRequests)
	}
	if c.RateMaxClients < 1 {
		return fmt.Errorf("rate limit max clients must be positive, got %d", c.RateMaxClients)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("rate window must be positive, got %s", c.RateWindow)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("session timeout must be positive, got %s", c.SessionTimeout)
	}
	for field, limit := range c.Limits {
		if limit < 1 {
			return fmt.Errorf("limit for field %q must be positive, got %d", field, limit)
		}
	}
	return nil
}

func intVar(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, raw)
	}
	return v, nil
}

func durationVar(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
	}
	return v, nil
}

func boolVar(name string, fallback bool) (bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, raw)
	}
	return v, nil
}

// envSuffix turns a field name like "document_text" into "DOCUMENT_TEXT".
func envSuffix(field string) string {
	out := make([]byte, len(field))
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func defaultDraftsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "drafts"
	}
	return filepath.Join(home, "Documents", "AI Writer Drafts")
}
