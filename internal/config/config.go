// Package config defines service configuration and how it is loaded.
//
// Keys are flat snake_case names shared by the YAML file and the
// REGATTA_-prefixed environment variables.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/validation"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreBackend selects where entries live: memory, sqlite or sheets.
	StoreBackend string `koanf:"store_backend"`
	SQLitePath   string `koanf:"sqlite_path"`

	SheetsSpreadsheetID   string `koanf:"sheets_spreadsheet_id"`
	SheetsWorksheet       string `koanf:"sheets_worksheet"`
	SheetsCredentialsFile string `koanf:"sheets_credentials_file"`

	// RatingsFile overrides the embedded Portsmouth table when set.
	RatingsFile string `koanf:"ratings_file"`
	// StrictBoatTypes rejects boat types missing from the table instead of
	// scoring them at rating 100.
	StrictBoatTypes bool `koanf:"strict_boat_types"`

	// Race-night rules. Clock values are HH:MM.
	RaceWeekday  string `koanf:"race_weekday"`
	StartAfter   string `koanf:"start_after"`
	LatestStart  string `koanf:"latest_start"`
	LatestFinish string `koanf:"latest_finish"`

	// Timezone is the club's local zone, used for submission timestamps.
	Timezone string `koanf:"timezone"`

	// DedupeSize bounds how many submission IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	OTelEnabled  bool   `koanf:"otel_enabled"`
	OTelEndpoint string `koanf:"otel_endpoint"`
	ServiceName  string `koanf:"service_name"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		StoreBackend:    BackendMemory,
		SQLitePath:      "regatta.db",
		SheetsWorksheet: "Race Entries",
		RaceWeekday:     "friday",
		StartAfter:      "17:59",
		LatestStart:     "20:00",
		LatestFinish:    "21:59",
		Timezone:        "UTC",
		DedupeSize:      10_000,
		ServiceName:     "regatta",
	}
}

// Rules returns the race-night validation rules.
func (c *Config) Rules() (validation.Rules, error) {
	return validation.ParseRules(c.RaceWeekday, c.StartAfter, c.LatestStart, c.LatestFinish, c.StrictBoatTypes)
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks the fields that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains([]string{"text", "json"}, c.LogFormat) {
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite backend", ErrInvalidConfig)
		}
	case BackendSheets:
		if strings.TrimSpace(c.SheetsSpreadsheetID) == "" {
			return fmt.Errorf("%w: sheets_spreadsheet_id is required for the sheets backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if _, err := c.Rules(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) == "" {
		return fmt.Errorf("%w: otel_endpoint is required when otel_enabled is set", ErrInvalidConfig)
	}
	return nil
}
