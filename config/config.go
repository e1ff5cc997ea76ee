// Package config reads process settings from the environment. The
// congregation's own settings live in the ledger config document instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robinvdvleuten/accounts/storage"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var validBackends = []string{BackendFile, BackendSQLite}

type Settings struct {
	// ConfigPath is the config document read by the file backend.
	ConfigPath string

	// Backend selects where months and config are stored.
	Backend string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// LogLevel is a zap level name.
	LogLevel string

	// WebPort is the port the read-only web view listens on.
	WebPort string
}

// Load reads .env files (when present) and then the environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) *Settings {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv reads settings from the environment only.
func FromEnv() *Settings {
	return &Settings{
		ConfigPath: getEnv("ACCOUNTS_CONFIG", defaultConfigPath()),
		Backend:    getEnv("ACCOUNTS_BACKEND", BackendFile),
		SQLitePath: getEnv("ACCOUNTS_DB", "./data/accounts.db"),
		LogLevel:   getEnv("ACCOUNTS_LOG_LEVEL", "warn"),
		WebPort:    getEnv("ACCOUNTS_WEB_PORT", "8080"),
	}
}

// Validate returns every problem with the settings in one error.
func (s *Settings) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(s.WebPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", s.WebPort))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, s.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", s.Backend, validBackends))
	}

	switch s.Backend {
	case BackendFile:
		if s.ConfigPath == "" {
			errors = append(errors, "config path cannot be empty when using file backend")
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(s.SQLitePath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", s.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Port returns WebPort as a number. Call Validate first.
func (s *Settings) Port() int {
	port, _ := strconv.Atoi(s.WebPort)
	return port
}

func defaultConfigPath() string {
	path, err := storage.DefaultConfigPath()
	if err != nil {
		return storage.ConfigFileName
	}
	return path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
