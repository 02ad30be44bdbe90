package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the dashboard server
type Config struct {
	Port        string
	Origin      string
	Environment string
	LogLevel    slog.Level
	Backend     BackendConfig
	Store       StoreConfig
	// MaxUploadBytes caps tumor image uploads accepted by the dashboard.
	MaxUploadBytes int64
}

// BackendConfig describes the remote oncology API the dashboard talks to
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig selects where the session tokens are persisted
type StoreConfig struct {
	Driver   string // sqlite, mysql or memory
	DSN      string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	// Secret, when set, encrypts persisted tokens at rest.
	Secret string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	storeConfig := StoreConfig{
		Driver:   strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DSN:      getEnv("STORE_DSN", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "oncology_dashboard"),
		Secret:   getEnv("STORE_SECRET", ""),
	}

	switch storeConfig.Driver {
	case "sqlite":
		if storeConfig.DSN == "" {
			storeConfig.DSN = "dashboard-session.db"
		}
	case "mysql":
		if storeConfig.DSN == "" {
			// Build DSN (Data Source Name) for MySQL connection
			storeConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				storeConfig.Username, storeConfig.Password, storeConfig.Host, storeConfig.Port, storeConfig.Name)
		}
	case "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", storeConfig.Driver)
	}

	timeoutSeconds, err := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %w", err)
	}

	maxUploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:5173"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    level,
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Store:          storeConfig,
		MaxUploadBytes: int64(maxUploadMB) << 20,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
