// Package config loads settings for the ntuapi binaries. Values come from
// defaults, then ~/.ntuapi/config.yaml, then NTUAPI_* environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jared-makes-stuff/NTU-Public-APIs/portal"
	"github.com/jared-makes-stuff/NTU-Public-APIs/scrape"
	"github.com/lmittmann/tint"
)

// Config is the full configuration of every binary.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Portal  PortalConfig  `yaml:"portal"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the SQLite database.
type StorageConfig struct {
	DSN string `yaml:"dsn" validate:"required"`
}

// PortalConfig configures the portal client.
type PortalConfig struct {
	Endpoints         portal.Endpoints `yaml:"endpoints"`
	UserAgent         string           `yaml:"user_agent"`
	Timeout           time.Duration    `yaml:"timeout" validate:"min=0"`
	RequestsPerSecond float64          `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int              `yaml:"burst" validate:"min=1"`
}

// ScrapeConfig configures scheduled scraping.
type ScrapeConfig struct {
	Schedules        map[string]string `yaml:"schedules"`
	Concurrency      int               `yaml:"concurrency" validate:"min=1"`
	RecentYears      int               `yaml:"recent_years" validate:"min=1"`
	JobTimeout       time.Duration     `yaml:"job_timeout" validate:"gt=0"`
	RunOnStart       bool              `yaml:"run_on_start"`
	VacancyTTL       time.Duration     `yaml:"vacancy_ttl" validate:"gt=0"`
	VacancyCacheSize int               `yaml:"vacancy_cache_size" validate:"min=1"`
}

// APIConfig configures the REST server.
type APIConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	sc := scrape.DefaultConfig()
	return &Config{
		Storage: StorageConfig{DSN: "ntuapi.db"},
		Portal: PortalConfig{
			Endpoints:         portal.DefaultEndpoints,
			UserAgent:         portal.DefaultOptions.UserAgent,
			Timeout:           portal.DefaultOptions.Timeout,
			RequestsPerSecond: portal.DefaultOptions.RequestsPerSecond,
			Burst:             portal.DefaultOptions.Burst,
		},
		Scrape: ScrapeConfig{
			Schedules:        maps.Clone(sc.Schedules),
			Concurrency:      sc.Concurrency,
			RecentYears:      sc.RecentYears,
			JobTimeout:       sc.JobTimeout,
			RunOnStart:       sc.RunOnStart,
			VacancyTTL:       sc.VacancyTTL,
			VacancyCacheSize: sc.VacancyCacheSize,
		},
		API: APIConfig{Addr: "localhost:8080"},
		Log: LogConfig{Level: "info"},
	}
}

// Load returns the effective configuration.
func Load() (*Config, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnv overrides fields from NTUAPI_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString(getenv, "NTUAPI_DSN", &c.Storage.DSN)
	setString(getenv, "NTUAPI_API_ADDR", &c.API.Addr)
	setString(getenv, "NTUAPI_LOG_LEVEL", &c.Log.Level)
	setString(getenv, "NTUAPI_USER_AGENT", &c.Portal.UserAgent)

	if err := setDuration(getenv, "NTUAPI_PORTAL_TIMEOUT", &c.Portal.Timeout); err != nil {
		return err
	}
	if err := setFloat(getenv, "NTUAPI_REQUESTS_PER_SECOND", &c.Portal.RequestsPerSecond); err != nil {
		return err
	}
	if err := setInt(getenv, "NTUAPI_CONCURRENCY", &c.Scrape.Concurrency); err != nil {
		return err
	}
	if err := setInt(getenv, "NTUAPI_RECENT_YEARS", &c.Scrape.RecentYears); err != nil {
		return err
	}
	if err := setDuration(getenv, "NTUAPI_JOB_TIMEOUT", &c.Scrape.JobTimeout); err != nil {
		return err
	}
	if err := setBool(getenv, "NTUAPI_RUN_ON_START", &c.Scrape.RunOnStart); err != nil {
		return err
	}
	return nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if value := getenv(key); value != "" {
		*dst = value
	}
}

func setInt(getenv func(string) string, key string, dst *int) error {
	value := getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(getenv func(string) string, key string, dst *float64) error {
	value := getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(getenv func(string) string, key string, dst *time.Duration) error {
	value := getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(getenv func(string) string, key string, dst *bool) error {
	value := getenv(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	*dst = b
	return nil
}

// PortalOptions returns the portal client options.
func (c *Config) PortalOptions() portal.Options {
	return portal.Options{
		UserAgent:         c.Portal.UserAgent,
		Timeout:           c.Portal.Timeout,
		RequestsPerSecond: c.Portal.RequestsPerSecond,
		Burst:             c.Portal.Burst,
	}
}

// ScrapeConfig returns the scrape service configuration.
func (c *Config) ScrapeConfig() *scrape.Config {
	return &scrape.Config{
		Endpoints:        c.Portal.Endpoints,
		Concurrency:      c.Scrape.Concurrency,
		JobTimeout:       c.Scrape.JobTimeout,
		RecentYears:      c.Scrape.RecentYears,
		Schedules:        maps.Clone(c.Scrape.Schedules),
		RunOnStart:       c.Scrape.RunOnStart,
		VacancyTTL:       c.Scrape.VacancyTTL,
		VacancyCacheSize: c.Scrape.VacancyCacheSize,
	}
}

// Logger builds a tint logger at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})), nil
}
