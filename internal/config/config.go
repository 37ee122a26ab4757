// Package config reads process settings from the environment. A .env file
// in the working directory, when present, fills in variables that are not
// already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/idilsaglam/todo/internal/db"
)

// Session storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config is the resolved process configuration.
type Config struct {
	Username       string
	SessionID      string
	SessionBackend string
	SessionDir     string
	SQLitePath     string
	Theme          string
	Env            string
	Database       db.Config
}

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool { return c.Env == "production" }

// Load reads envFile (ignored when missing) and then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	base := filepath.Join(home, ".tada")

	cfg := &Config{
		Username:       firstNonEmpty(os.Getenv("TODO_USERNAME"), os.Getenv("USER"), "guest"),
		SessionBackend: strings.ToLower(firstNonEmpty(os.Getenv("TODO_SESSION_BACKEND"), BackendJSON)),
		SessionDir:     firstNonEmpty(os.Getenv("TODO_SESSION_DIR"), filepath.Join(base, "sessions")),
		SQLitePath:     firstNonEmpty(os.Getenv("TODO_SQLITE_PATH"), filepath.Join(base, "sessions.db")),
		Theme:          firstNonEmpty(os.Getenv("TODO_THEME"), "classic"),
		Env:            firstNonEmpty(os.Getenv("APP_ENV"), "development"),
	}
	cfg.SessionID = firstNonEmpty(os.Getenv("TODO_SESSION"), cfg.Username)

	switch cfg.SessionBackend {
	case BackendJSON, BackendSQLite:
	default:
		return nil, fmt.Errorf("TODO_SESSION_BACKEND: unknown backend %q (want %s or %s)",
			cfg.SessionBackend, BackendJSON, BackendSQLite)
	}

	cfg.Database = db.Config{
		URL:         os.Getenv("DATABASE_URL"),
		InsecureTLS: true,
		Host:        os.Getenv("PGHOST"),
		User:        os.Getenv("PGUSER"),
		Database:    os.Getenv("PGDATABASE"),
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
