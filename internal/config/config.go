// Package config resolves diary settings from defaults, an optional YAML
// file and BPDIARY_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bpdiary/internal/view"
)

// EnvPrefix prefixes every environment override, e.g. BPDIARY_DATABASE.
const EnvPrefix = "BPDIARY"

// PathEnv names the config file when --config is not given.
const PathEnv = EnvPrefix + "_CONFIG"

const (
	DefaultDatabase    = "bpdiary.db"
	DefaultBusyTimeout = 5 * time.Second
	DefaultLogLevel    = "info"
	DefaultChartDays   = 30
)

// Config holds the diary settings.
//
// Fields carry no envconfig defaults since a default tag would overwrite
// values read from the YAML file. Nor do they carry envconfig name tags, which
// make envconfig fall back to the unprefixed name (plain TIMEZONE, DAYS).
// Environment keys are derived from field names: BPDIARY_REPORT_TIMEZONE.
type Config struct {
	Database    string        `yaml:"database"`
	BusyTimeout time.Duration `yaml:"busy_timeout" split_words:"true"`
	LogLevel    string        `yaml:"log_level" split_words:"true"`

	Report ReportConfig `yaml:"report"`
	Chart  ChartConfig  `yaml:"chart"`
}

// ReportConfig controls the HTML export.
type ReportConfig struct {
	Title string `yaml:"title"`

	// Timezone is an IANA name used for "today", the default slot and the
	// report's generation time. Empty means the local zone.
	Timezone string `yaml:"timezone"`
}

// ChartConfig controls the trend chart.
type ChartConfig struct {
	Days int `yaml:"days"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Database:    DefaultDatabase,
		BusyTimeout: DefaultBusyTimeout,
		LogLevel:    DefaultLogLevel,
		Chart:       ChartConfig{Days: DefaultChartDays},
	}
}

// Load resolves the configuration. path names a YAML file; when empty the
// BPDIARY_CONFIG variable is consulted, and when that is unset too no file is
// read. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}

	// Unknown keys are typos; reject them rather than silently ignoring.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("config: database path is empty")
	}
	if c.BusyTimeout <= 0 {
		return fmt.Errorf("config: busy_timeout must be positive, got %s", c.BusyTimeout)
	}
	if c.Chart.Days <= 0 || c.Chart.Days > view.MaxWindow {
		return fmt.Errorf("config: chart.days must be between 1 and %d, got %d", view.MaxWindow, c.Chart.Days)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("config: report.timezone: %w", err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() *time.Location {
	if c.Report.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: want debug, info, warn or error", s)
	}
	return level, nil
}
