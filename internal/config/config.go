// Package config loads refgen settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mhpenta/refgen"
)

const (
	DefaultModel          = "gemini-3-pro-image-preview"
	DefaultReferenceDir   = refgen.DefaultReferenceDir
	DefaultOutputFile     = refgen.DefaultOutputPath
	DefaultThumbnailFile  = "thumbnail.png"
	DefaultRequestTimeout = time.Duration(0)
	DefaultLogLevel       = "info"
)

// Config holds the application configuration.
type Config struct {
	// Gemini API
	GeminiAPIKey  string // Required
	GeminiBaseURL string // Optional endpoint override

	Model        string
	ReferenceDir string

	// RequestTimeout bounds a single generation call. Zero means no limit.
	RequestTimeout time.Duration

	LogLevel slog.Level
}

// Load reads a .env file if one exists, then the environment.
// A missing GEMINI_API_KEY yields refgen.ErrCredentialMissing alongside
// the rest of the configuration, so commands that need no credential can
// still use it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	timeout, err := getEnvDuration("REFGEN_REQUEST_TIMEOUT", DefaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	level, err := ParseLogLevel(getEnv("LOG_LEVEL", DefaultLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", ""),
		Model:          getEnv("REFGEN_MODEL", DefaultModel),
		ReferenceDir:   getEnv("REFGEN_REFERENCE_DIR", DefaultReferenceDir),
		RequestTimeout: timeout,
		LogLevel:       level,
	}
	if cfg.GeminiAPIKey == "" {
		return cfg, fmt.Errorf("%w: set GEMINI_API_KEY in the environment or a .env file", refgen.ErrCredentialMissing)
	}
	return cfg, nil
}

// ProviderConfig returns the settings needed to construct a provider.
func (c *Config) ProviderConfig() *refgen.ProviderConfig {
	return &refgen.ProviderConfig{
		Provider: refgen.ProviderGeminiAPI,
		APIKey:   c.GeminiAPIKey,
		BaseURL:  c.GeminiBaseURL,
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// ParseLogLevel accepts debug, info, warn or error, case-insensitively.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
