package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type Config struct {
	// Storage
	DataDir  string
	DebugSQL bool

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		DataDir:  getEnv("FINTRACK_DATA_DIR", "./data"),
		DebugSQL: getEnvBool("FINTRACK_DEBUG_SQL", false),

		LogLevel:  getEnv("FINTRACK_LOG_LEVEL", "info"),
		LogFormat: getEnv("FINTRACK_LOG_FORMAT", log.FormatText),
	}

	return cfg
}

// DBPath is the location of the database file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, storage.DBFileName)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data directory
	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("data directory '%s' is not a directory", c.DataDir))
	}

	// Validate logging
	if _, err := log.ParseLevel(c.LogLevel); err != nil || strings.TrimSpace(c.LogLevel) == "" {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	validFormats := []string{log.FormatText, log.FormatJSON}
	isValidFormat := false
	for _, format := range validFormats {
		if c.LogFormat == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
