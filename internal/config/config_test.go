package config

import (
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any existing env vars that might interfere
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	// Check defaults are applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.DatabasePath != "./data/feastdays.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "./data/feastdays.db")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.JulianOffsetMode != OffsetModeFixed || cfg.JulianOffsetDays != 13 {
		t.Errorf("Julian offset = %s/%d, want fixed/13", cfg.JulianOffsetMode, cfg.JulianOffsetDays)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "en")
	}
	if cfg.MaterializeSchedule != "@weekly" {
		t.Errorf("MaterializeSchedule = %q, want %q", cfg.MaterializeSchedule, "@weekly")
	}
	if cfg.MaterializeYearsAhead != 5 {
		t.Errorf("MaterializeYearsAhead = %d, want 5", cfg.MaterializeYearsAhead)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()

	// Set custom values
	os.Setenv("PORT", "3000")
	os.Setenv("ENV", "production")
	os.Setenv("DATABASE_PATH", "/data/test.db")
	os.Setenv("API_KEY", "secret-key-123")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("JULIAN_OFFSET_MODE", "century")
	os.Setenv("DEFAULT_LOCALE", "fr")
	os.Setenv("MATERIALIZE_SCHEDULE", "0 3 * * 1")
	os.Setenv("MATERIALIZE_YEARS_AHEAD", "10")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.JulianOffsetMode != OffsetModeCentury {
		t.Errorf("JulianOffsetMode = %q, want %q", cfg.JulianOffsetMode, OffsetModeCentury)
	}
	if cfg.DefaultLocale != "fr" {
		t.Errorf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "fr")
	}
	if cfg.MaterializeSchedule != "0 3 * * 1" {
		t.Errorf("MaterializeSchedule = %q, want %q", cfg.MaterializeSchedule, "0 3 * * 1")
	}
	if cfg.MaterializeYearsAhead != 10 {
		t.Errorf("MaterializeYearsAhead = %d, want 10", cfg.MaterializeYearsAhead)
	}
}

// validConfig returns a config that passes validation.
func validConfig() Config {
	return Config{
		Port:                  8080,
		Env:                   EnvDevelopment,
		DatabasePath:          "./data/test.db",
		LogLevel:              "info",
		LogFormat:             "text",
		JulianOffsetMode:      OffsetModeFixed,
		JulianOffsetDays:      13,
		DefaultLocale:         "en",
		MaterializeSchedule:   "@weekly",
		MaterializeYearsAhead: 5,
	}
}

func TestConfig_Validate(t *testing.T) {
	// Table-driven tests for validation
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"valid production config", func(c *Config) {
			c.Env = EnvProduction
			c.APIKey = "required-in-prod"
			c.LogFormat = "json"
		}, false},
		{"production requires API key", func(c *Config) { c.Env = EnvProduction }, true},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"century offset ignores days", func(c *Config) {
			c.JulianOffsetMode = OffsetModeCentury
			c.JulianOffsetDays = 0
		}, false},
		{"unknown offset mode", func(c *Config) { c.JulianOffsetMode = "astronomical" }, true},
		{"offset days out of range", func(c *Config) { c.JulianOffsetDays = 40 }, true},
		{"empty locale", func(c *Config) { c.DefaultLocale = "" }, true},
		{"disabled schedule", func(c *Config) { c.MaterializeSchedule = "" }, false},
		{"invalid schedule", func(c *Config) { c.MaterializeSchedule = "every tuesday" }, true},
		{"negative years ahead", func(c *Config) { c.MaterializeYearsAhead = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJulianOffset(t *testing.T) {
	tests := []struct {
		mode    string
		days    int
		wantErr bool
	}{
		{OffsetModeFixed, 13, false},
		{OffsetModeFixed, MinJulianOffsetDays, false},
		{OffsetModeFixed, MaxJulianOffsetDays, false},
		{OffsetModeFixed, 9, true},
		{OffsetModeFixed, 21, true},
		{OffsetModeCentury, 0, false},
		{"lunar", 13, true},
		{"", 13, true},
	}

	for _, tt := range tests {
		err := ValidateJulianOffset(tt.mode, tt.days)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateJulianOffset(%q, %d) error = %v, wantErr %v", tt.mode, tt.days, err, tt.wantErr)
		}
	}
}

func TestConfig_JulianOffset(t *testing.T) {
	cfg := validConfig()

	if got := cfg.JulianOffset()(1800); got != 13 {
		t.Errorf("fixed JulianOffset()(1800) = %d, want 13", got)
	}

	cfg.JulianOffsetMode = OffsetModeCentury
	if got := cfg.JulianOffset()(1800); got != 12 {
		t.Errorf("century JulianOffset()(1800) = %d, want 12", got)
	}

	r := calendar.NewRegistry(calendar.WithJulianOffset(cfg.JulianOffset()))
	easter, err := r.Anchor(calendar.Eastern, 2024)
	if err != nil {
		t.Fatalf("Anchor: %v", err)
	}
	if want := (civil.Date{Year: 2024, Month: time.May, Day: 5}); easter != want {
		t.Errorf("eastern easter 2024 = %s, want %s", easter, want)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv removes all config-related environment variables
func clearEnv() {
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "API_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
		"JULIAN_OFFSET_MODE", "JULIAN_OFFSET_DAYS", "DEFAULT_LOCALE",
		"MATERIALIZE_SCHEDULE", "MATERIALIZE_YEARS_AHEAD",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
