// Package config loads the calculator configuration from a TOML file with
// XDG-compliant lookup.
package config

import (
	"errors"
	"fmt"

	"github.com/home265/bob-obras-sanitarias/pkg/drainage"
	"github.com/home265/bob-obras-sanitarias/pkg/heating"
	"github.com/home265/bob-obras-sanitarias/pkg/water"
)

// Config holds the complete application configuration.
type Config struct {
	Catalogs CatalogsConfig  `toml:"catalogs"`
	Database DatabaseConfig  `toml:"database"`
	Logging  LoggingConfig   `toml:"logging"`
	Server   ServerConfig    `toml:"server"`
	Water    water.Params    `toml:"water"`
	Drainage drainage.Params `toml:"drainage"`
	Heating  heating.Params  `toml:"heating"`
}

// CatalogsConfig locates the reference tables.
type CatalogsConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig controls the SQLite project store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level  LogLevel  `toml:"level"`
	Format LogFormat `toml:"format"`
	File   string    `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the logrus formatter.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `toml:"port"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Catalogs: CatalogsConfig{Dir: "data"},
		Database: DatabaseConfig{Path: "instalaciones.db"},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Server:   ServerConfig{Port: 3000},
		Water:    water.DefaultParams(),
		Drainage: drainage.DefaultParams(),
		Heating:  heating.DefaultParams(),
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalogs.Dir == "" {
		errs = append(errs, errors.New("catalogs: dir is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database: path is required"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server: port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if err := validateWater(c.Water); err != nil {
		errs = append(errs, fmt.Errorf("water: %w", err))
	}
	if err := validateDrainage(c.Drainage); err != nil {
		errs = append(errs, fmt.Errorf("drainage: %w", err))
	}
	if err := validateHeating(c.Heating); err != nil {
		errs = append(errs, fmt.Errorf("heating: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	var errs []error

	switch l.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("invalid level: %s", l.Level))
	}
	switch l.Format {
	case LogFormatText, LogFormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("invalid format: %s", l.Format))
	}

	return errors.Join(errs...)
}

func validateWater(p water.Params) error {
	var errs []error
	if p.MinPressureM < 0 {
		errs = append(errs, errors.New("min_pressure_m must be non-negative"))
	}
	if p.BoilerEfficiency < 0 || p.BoilerEfficiency > 1 {
		errs = append(errs, errors.New("boiler_efficiency must be between 0 and 1"))
	}
	return errors.Join(errs...)
}

func validateDrainage(p drainage.Params) error {
	var errs []error
	if p.StartDepthCM < 0 {
		errs = append(errs, errors.New("start_depth_cm must be non-negative"))
	}
	if p.DailyAllowanceL < 0 {
		errs = append(errs, errors.New("daily_allowance_l must be non-negative"))
	}
	return errors.Join(errs...)
}

func validateHeating(p heating.Params) error {
	var errs []error
	if p.SafetyMargin != 0 && p.SafetyMargin < 1 {
		errs = append(errs, errors.New("safety_margin must be at least 1"))
	}
	if p.ComfortTempC < 0 || p.ComfortTempC > 30 {
		errs = append(errs, errors.New("comfort_temp_c must be between 0 and 30"))
	}
	return errors.Join(errs...)
}
