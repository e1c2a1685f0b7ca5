// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Preview behaviour
	PageSize int

	// Upload validation
	MaxUploadMB int64

	// Where the session identity is persisted
	StateDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present in the working directory
func Load() (*Config, error) {
	// A missing .env file is not an error; env vars win regardless
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("DATAPREP_API_URL", "http://localhost:8000/api"),
		HTTPTimeout: time.Duration(getEnvAsInt("DATAPREP_HTTP_TIMEOUT_MS", 30000)) * time.Millisecond,
		PageSize:    getEnvAsInt("DATAPREP_PAGE_SIZE", 5),
		MaxUploadMB: int64(getEnvAsInt("DATAPREP_MAX_UPLOAD_MB", 50)),
		StateDir:    getEnv("DATAPREP_STATE_DIR", defaultStateDir()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API base URL is required")
	}

	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP timeout must be positive")
	}

	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}

	if c.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}

	if c.StateDir == "" {
		return errors.New("state directory is required")
	}

	return nil
}

// defaultStateDir returns the per-user directory where the session identity
// is stored
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".dataprep"
	}
	return filepath.Join(base, "dataprep")
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
