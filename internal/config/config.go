// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultListenAddr = ":8080"

	envDatabaseURL = "DATABASE_URL"
	envListenAddr  = "LISTEN_ADDR"
	envStore       = "STORE"
	envCORSOrigin  = "CORS_ORIGIN"
	envLogLevel    = "LOG_LEVEL"
	envLogFormat   = "LOG_FORMAT"
)

// Store selects the persistence backend.
type Store string

const (
	// StorePostgres backs the application with PostgreSQL. Requires DATABASE_URL.
	StorePostgres Store = "postgres"
	// StoreMemory backs the application with the in-process store. State is
	// lost on restart; intended for local development and tests.
	StoreMemory Store = "memory"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DatabaseURL string
	ListenAddr  string
	Store       Store
	CORSOrigin  string
	LogLevel    slog.Level
	LogFormat   string
}

// Load reads configuration from environment variables with sensible defaults.
// It returns an error for contradictory settings, such as selecting the
// postgres store without a DATABASE_URL.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: os.Getenv(envDatabaseURL),
		ListenAddr:  defaultListenAddr,
		Store:       StorePostgres,
		CORSOrigin:  os.Getenv(envCORSOrigin),
		LogLevel:    slog.LevelInfo,
		LogFormat:   "json",
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envStore); v != "" {
		switch Store(strings.ToLower(v)) {
		case StorePostgres:
			cfg.Store = StorePostgres
		case StoreMemory:
			cfg.Store = StoreMemory
		default:
			return Config{}, fmt.Errorf("unknown %s value %q (want %q or %q)", envStore, v, StorePostgres, StoreMemory)
		}
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	if cfg.Store == StorePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("%s is required when %s=%s", envDatabaseURL, envStore, StorePostgres)
	}

	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger writing to w at the configured level.
// LOG_FORMAT=text selects the text handler; everything else gets JSON.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
