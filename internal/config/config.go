// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SWC_ environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DBDriver selects the database dialect: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the sqlite file path or the postgres connection string.
	DBDSN string `koanf:"db_dsn"`

	// DBMaxOpenConns bounds the connection pool; 0 keeps the driver default.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// AutoMigrate creates missing tables on startup.
	AutoMigrate bool `koanf:"auto_migrate"`

	// DefaultPageLimit is used when a list request omits limit.
	DefaultPageLimit int `koanf:"default_page_limit"`

	// MaxPageLimit caps limit on list routes. 0 disables the cap.
	MaxPageLimit int `koanf:"max_page_limit"`

	// BulkExportDir is where cmd/bulk-export writes the bulk files.
	BulkExportDir string `koanf:"bulk_export_dir"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8000",
		DBDriver:         DriverSQLite,
		DBDSN:            "fantasy_data.db",
		DBMaxOpenConns:   0,
		AutoMigrate:      false,
		DefaultPageLimit: 100,
		MaxPageLimit:     0,
		BulkExportDir:    "bulk",
	}
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres:
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	case strings.TrimSpace(c.DBDSN) == "":
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	case c.DefaultPageLimit < 1:
		return fmt.Errorf("%w: default_page_limit must be positive", ErrInvalidConfig)
	case c.MaxPageLimit < 0:
		return fmt.Errorf("%w: max_page_limit must not be negative", ErrInvalidConfig)
	case c.MaxPageLimit > 0 && c.DefaultPageLimit > c.MaxPageLimit:
		return fmt.Errorf("%w: default_page_limit exceeds max_page_limit", ErrInvalidConfig)
	}
	return nil
}
