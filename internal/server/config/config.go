// Package config handles configuration for the API server:
// defaults, then environment variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
)

// Config holds runtime settings for the Travlr server.
//
// Fields:
//   - Address: bind address of the HTTP server.
//   - Storage: "bolt" (document store, default) or "sqlite".
//   - DatabasePath: bbolt or sqlite file.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Required.
//   - LogLevel / LogFormat: slog settings.
//   - AuthRateLimit: requests per AuthRateWindow per IP on login/register.
//   - ShutdownTimeout: graceful shutdown deadline.
//   - TrustProxy: take the client IP from X-Forwarded-For/X-Real-IP (only behind own proxy).
type Config struct {
	Address         string
	Storage         string
	DatabasePath    string
	JWTSecret       string
	LogLevel        string
	LogFormat       string
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	ShutdownTimeout time.Duration
	TrustProxy      bool
}

// LoadDefaults populates Config with development defaults. JWTSecret stays empty.
func (c *Config) LoadDefaults() {
	c.Address = ":3000"
	c.Storage = StorageBolt
	c.DatabasePath = "travlr.db"
	c.JWTSecret = ""
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.AuthRateLimit = 20
	c.AuthRateWindow = time.Minute
	c.ShutdownTimeout = 10 * time.Second
	c.TrustProxy = false
}

// Load builds a Config from defaults, environment and args (без имени программы).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) parseEnv() error {
	if v, ok := lookupEnv("ADDRESS"); ok {
		c.Address = v
	}
	if v, ok := lookupEnv("STORAGE"); ok {
		c.Storage = v
	}
	if v, ok := lookupEnv("DATABASE_PATH"); ok {
		c.DatabasePath = v
	}
	if v, ok := lookupEnv("JWT_SECRET"); ok {
		c.JWTSecret = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := lookupEnv("AUTH_RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AUTH_RATE_LIMIT %q: %w", v, err)
		}
		c.AuthRateLimit = n
	}
	if v, ok := lookupEnv("TRUST_PROXY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TRUST_PROXY %q: %w", v, err)
		}
		c.TrustProxy = b
	}

	return nil
}

// parseFlags populates Config from command-line flags.
//
//	-a string          HTTP bind address (e.g. ":3000")
//	-storage string    bolt | sqlite
//	-d string          database file
//	-s string          JWT HMAC secret
//	-log-level string  debug | info | warn | error
//	-log-format string json | text
//	-auth-rate int     login/register requests per minute per IP
//	-trust-proxy       use X-Forwarded-For/X-Real-IP for rate limiting
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("travlr-server", flag.ContinueOnError)

	fs.StringVar(&c.Address, "a", c.Address, "address and port to run server")
	fs.StringVar(&c.Storage, "storage", c.Storage, "storage backend (bolt|sqlite)")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "database file path")
	fs.StringVar(&c.JWTSecret, "s", c.JWTSecret, "JWT secret key")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (json|text)")
	fs.IntVar(&c.AuthRateLimit, "auth-rate", c.AuthRateLimit, "auth requests per minute per IP")
	fs.BoolVar(&c.TrustProxy, "trust-proxy", c.TrustProxy, "trust X-Forwarded-For/X-Real-IP headers")

	return fs.Parse(args)
}

// Validate проверяет, что с такой конфигурацией сервер может стартовать
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT secret is required (set JWT_SECRET or -s)"))
	}

	switch c.Storage {
	case StorageBolt, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageBolt, StorageSQLite))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}

	if c.AuthRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("auth rate limit must be positive, got %d", c.AuthRateLimit))
	}

	return errors.Join(errs...)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
