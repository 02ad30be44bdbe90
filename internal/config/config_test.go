package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DSN", "")
	t.Setenv("PORT", "3001")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("API_BASE_URL", "http://localhost:8000/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "30")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("LOG_LEVEL", "info")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Store.DSN != "dashboard-session.db" {
		t.Errorf("expected default sqlite DSN, got %q", cfg.Store.DSN)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("expected 10MB upload cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestLoadConfig_MySQLDSN(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("STORE_DSN", "")
	t.Setenv("DB_USERNAME", "dash")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "sessions")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("MAX_UPLOAD_MB", "1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := "dash:pw@tcp(db:3307)/sessions?charset=utf8mb4&parseTime=True&loc=Local"
	if cfg.Store.DSN != want {
		t.Errorf("DSN = %q, want %q", cfg.Store.DSN, want)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORE_DRIVER", "postgres"},
		{"bad timeout", "HTTP_TIMEOUT_SECONDS", "soon"},
		{"bad upload cap", "MAX_UPLOAD_MB", "ten"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv("HTTP_TIMEOUT_SECONDS", "30")
			t.Setenv("MAX_UPLOAD_MB", "10")
			t.Setenv("LOG_LEVEL", "info")
			t.Setenv(tt.key, tt.value)

			if _, err := LoadConfig(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
