// Package config loads runtime settings from PLANNER_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds every setting the server and CLI read at startup.
type Config struct {
	Addr          string
	DBPath        string
	Env           string
	CSRFKey       string // 64 hex characters
	BaseURL       string
	AdminEmail    string
	AdminPassword string
	ResendKey     string
	ResendFrom    string
	ReplyTo       string
	LogLevel      string
	LogFormat     string
	LogFile       string
	SlowQuery     time.Duration
	SlowRequest   time.Duration
	RateLimit     int

	// TrustedOrigins are extra hosts allowed to submit forms (comma-separated in the env).
	TrustedOrigins []string
}

// Load reads the environment through getenv (os.Getenv in production).
// PRE: getenv is non-nil
// POST: Returns a Config with defaults applied, or an error for malformed numbers
func Load(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		return envOrDefault(getenv, "PLANNER_"+key, fallback)
	}

	cfg := Config{
		Addr:          env("ADDR", ":8080"),
		DBPath:        env("DB_PATH", "planner.db"),
		Env:           env("ENV", "development"),
		CSRFKey:       env("CSRF_KEY", ""),
		BaseURL:       strings.TrimRight(env("BASE_URL", "http://localhost:8080"), "/"),
		AdminEmail:    env("ADMIN_EMAIL", ""),
		AdminPassword: env("ADMIN_PASSWORD", ""),
		ResendKey:     env("RESEND_KEY", ""),
		ResendFrom:    env("RESEND_FROM", "Wedding Planner <noreply@example.com>"),
		ReplyTo:       env("REPLY_TO", ""),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "text"),
		LogFile:       env("LOG_FILE", ""),
	}

	var err error
	if cfg.SlowQuery, err = millis(env("SLOW_QUERY_MS", "50")); err != nil {
		return Config{}, fmt.Errorf("PLANNER_SLOW_QUERY_MS: %w", err)
	}
	if cfg.SlowRequest, err = millis(env("SLOW_REQUEST_MS", "500")); err != nil {
		return Config{}, fmt.Errorf("PLANNER_SLOW_REQUEST_MS: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(env("RATE_LIMIT", "10")); err != nil {
		return Config{}, fmt.Errorf("PLANNER_RATE_LIMIT: %w", err)
	}

	for _, o := range strings.Split(env("TRUSTED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.TrustedOrigins = append(cfg.TrustedOrigins, o)
		}
	}

	if cfg.IsProduction() && cfg.CSRFKey == "" {
		return Config{}, fmt.Errorf("PLANNER_CSRF_KEY is required in production")
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with PLANNER_ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Logger builds the process logger. Output goes to a rotated file when
// LogFile is set, otherwise to stdout.
func (c Config) Logger(stdout io.Writer) *slog.Logger {
	out := stdout
	if c.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func millis(s string) (time.Duration, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func envOrDefault(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// FromOS is Load(os.Getenv).
func FromOS() (Config, error) {
	return Load(os.Getenv)
}
