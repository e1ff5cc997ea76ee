package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  string
	}{
		{
			name:     "valid file backend",
			settings: Settings{ConfigPath: "accounts.yaml", Backend: BackendFile, LogLevel: "warn", WebPort: "8080"},
		},
		{
			name:     "valid sqlite backend",
			settings: Settings{Backend: BackendSQLite, SQLitePath: "accounts.db", LogLevel: "DEBUG", WebPort: "8080"},
		},
		{
			name:     "non-numeric port",
			settings: Settings{ConfigPath: "accounts.yaml", Backend: BackendFile, LogLevel: "warn", WebPort: "abc"},
			wantErr:  "invalid port 'abc': must be a number",
		},
		{
			name:     "port out of range",
			settings: Settings{ConfigPath: "accounts.yaml", Backend: BackendFile, LogLevel: "warn", WebPort: "70000"},
			wantErr:  "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:     "unknown backend",
			settings: Settings{Backend: "sheets", LogLevel: "warn", WebPort: "8080"},
			wantErr:  "invalid backend 'sheets'",
		},
		{
			name:     "sqlite without path",
			settings: Settings{Backend: BackendSQLite, LogLevel: "warn", WebPort: "8080"},
			wantErr:  "SQLite database path cannot be empty",
		},
		{
			name:     "file without config path",
			settings: Settings{Backend: BackendFile, LogLevel: "warn", WebPort: "8080"},
			wantErr:  "config path cannot be empty",
		},
		{
			name:     "bad log level",
			settings: Settings{ConfigPath: "accounts.yaml", Backend: BackendFile, LogLevel: "loud", WebPort: "8080"},
			wantErr:  "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	s := Settings{Backend: "nope", LogLevel: "loud", WebPort: "0"}
	err := s.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "invalid backend 'nope'")
	assert.Contains(t, err.Error(), "invalid log level 'loud'")
}

func TestValidateCreatesSQLiteDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := Settings{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "accounts.db"), LogLevel: "warn", WebPort: "8080"}
	assert.NoError(t, s.Validate())
	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ACCOUNTS_CONFIG", "/tmp/accounts.yaml")
	t.Setenv("ACCOUNTS_BACKEND", "sqlite")
	t.Setenv("ACCOUNTS_DB", "/tmp/accounts.db")
	t.Setenv("ACCOUNTS_LOG_LEVEL", "debug")
	t.Setenv("ACCOUNTS_WEB_PORT", "9090")

	s := FromEnv()
	assert.Equal(t, &Settings{
		ConfigPath: "/tmp/accounts.yaml",
		Backend:    BackendSQLite,
		SQLitePath: "/tmp/accounts.db",
		LogLevel:   "debug",
		WebPort:    "9090",
	}, s)
	assert.Equal(t, 9090, s.Port())
}

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ACCOUNTS_CONFIG", "ACCOUNTS_BACKEND", "ACCOUNTS_DB", "ACCOUNTS_LOG_LEVEL", "ACCOUNTS_WEB_PORT"} {
		t.Setenv(key, "")
	}
	s := FromEnv()
	assert.Equal(t, BackendFile, s.Backend)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "8080", s.WebPort)
	assert.True(t, filepath.Base(s.ConfigPath) == ".accounts-manager.yaml")
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(envFile, []byte("ACCOUNTS_WEB_PORT=7070\nACCOUNTS_BACKEND=sqlite\n"), 0o644))
	t.Setenv("ACCOUNTS_BACKEND", "file")
	t.Setenv("ACCOUNTS_WEB_PORT", "")
	os.Unsetenv("ACCOUNTS_WEB_PORT")

	s := Load(envFile)
	assert.Equal(t, "7070", s.WebPort)
	assert.Equal(t, BackendFile, s.Backend)
}
