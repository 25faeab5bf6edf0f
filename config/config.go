package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rainlens/station-viewer/daterange"
)

// Config holds environment-driven settings for the dashboard API.
type Config struct {
	DatabaseURL    string
	Port           int
	BearerToken    string
	AppEnv         string
	EarliestDate   string
	UTCOffsetHours int
	PreviewTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           8080,
		AppEnv:         "dev",
		EarliestDate:   daterange.DefaultEarliestDate,
		UTCOffsetHours: daterange.DefaultUTCOffsetHours,
		PreviewTimeout: 10 * time.Second,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.AppEnv = env
	}

	if dateStr := os.Getenv("EARLIEST_DATE"); dateStr != "" {
		if _, err := time.Parse("2006-01-02", dateStr); err != nil {
			return cfg, fmt.Errorf("invalid EARLIEST_DATE: %s", dateStr)
		}
		cfg.EarliestDate = dateStr
	}

	if offsetStr := os.Getenv("UTC_OFFSET_HOURS"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= -12 && offset <= 14 {
			cfg.UTCOffsetHours = offset
		} else {
			return cfg, fmt.Errorf("invalid UTC_OFFSET_HOURS: %s", offsetStr)
		}
	}

	if timeoutStr := os.Getenv("PREVIEW_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil || timeout <= 0 {
			return cfg, fmt.Errorf("invalid PREVIEW_TIMEOUT: %s", timeoutStr)
		}
		cfg.PreviewTimeout = timeout
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
