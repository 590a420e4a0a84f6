// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file

	// Authentication
	APIKey string // API key for admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Computation
	JulianOffsetMode string // fixed, century
	JulianOffsetDays int    // used when JulianOffsetMode is fixed

	// Labels
	DefaultLocale string // BCP 47 tag used when a request names none

	// Materialization
	MaterializeSchedule   string // cron spec; empty disables the job
	MaterializeYearsAhead int    // years past the current one to keep stored
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Julian offset modes
const (
	OffsetModeFixed   = "fixed"
	OffsetModeCentury = "century"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is a no-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/feastdays.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Computation
	cfg.JulianOffsetMode = getEnv("JULIAN_OFFSET_MODE", OffsetModeFixed)
	cfg.JulianOffsetDays = getEnvInt("JULIAN_OFFSET_DAYS", calendar.DefaultJulianOffsetDays)

	// Labels
	cfg.DefaultLocale = getEnv("DEFAULT_LOCALE", "en")

	// Materialization
	cfg.MaterializeSchedule = getEnv("MATERIALIZE_SCHEDULE", "@weekly")
	cfg.MaterializeYearsAhead = getEnvInt("MATERIALIZE_YEARS_AHEAD", 5)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// Validate database path is set
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	// Validate Julian offset
	if err := ValidateJulianOffset(c.JulianOffsetMode, c.JulianOffsetDays); err != nil {
		errs = append(errs, fmt.Errorf("JULIAN_OFFSET_MODE/JULIAN_OFFSET_DAYS: %w", err))
	}

	if c.DefaultLocale == "" {
		errs = append(errs, errors.New("DEFAULT_LOCALE is required"))
	}

	// Validate materialization
	if c.MaterializeSchedule != "" {
		if _, err := cron.ParseStandard(c.MaterializeSchedule); err != nil {
			errs = append(errs, fmt.Errorf("MATERIALIZE_SCHEDULE is not a valid cron spec: %w", err))
		}
	}
	if c.MaterializeYearsAhead < 0 || c.MaterializeYearsAhead > 100 {
		errs = append(errs, fmt.Errorf("MATERIALIZE_YEARS_AHEAD must be between 0 and 100, got %d", c.MaterializeYearsAhead))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Bounds for a fixed Julian offset.
const (
	MinJulianOffsetDays = 10
	MaxJulianOffsetDays = 20
)

// ValidateJulianOffset checks an offset mode and, for fixed mode, the number
// of days. days is ignored in century mode.
func ValidateJulianOffset(mode string, days int) error {
	switch mode {
	case OffsetModeFixed:
		if days < MinJulianOffsetDays || days > MaxJulianOffsetDays {
			return fmt.Errorf("fixed offset must be between %d and %d days, got %d", MinJulianOffsetDays, MaxJulianOffsetDays, days)
		}
		return nil
	case OffsetModeCentury:
		return nil
	default:
		return fmt.Errorf("offset mode must be one of: fixed, century; got %q", mode)
	}
}

// JulianOffset returns the Julian→Gregorian policy selected by configuration.
func (c *Config) JulianOffset() calendar.JulianOffset {
	if c.JulianOffsetMode == OffsetModeCentury {
		return calendar.CenturyJulianOffset
	}
	return calendar.FixedJulianOffset(c.JulianOffsetDays)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
