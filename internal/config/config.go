// Package config provides configuration management for the market report generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"marketreport/internal/lexicon"
	"marketreport/pkg/utils"
)

// Configuration validation errors.
var (
	ErrNoQueries          = errors.New("at least one query is required")
	ErrBlankQuery         = errors.New("query must not be blank")
	ErrInvalidPageSize    = errors.New("news.page_size must be between 1 and 100")
	ErrMissingBaseURL     = errors.New("news.base_url is required unless news.file is set")
	ErrInvalidBaseURL     = errors.New("news.base_url must be an http(s) URL")
	ErrMissingLanguage    = errors.New("news.language is required")
	ErrInvalidTimeout     = errors.New("news.timeout_sec must be at least 1")
	ErrInvalidRateLimit   = errors.New("news.rate_limit_per_sec must be non-negative")
	ErrInvalidBufferSize  = errors.New("news.buffer_size_kb must be at least 1")
	ErrMissingOutputPath  = errors.New("output.base_path is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidSchedule    = errors.New("schedule.cron is not a valid cron expression")
	ErrInvalidTimezone    = errors.New("schedule.timezone is not a known location")
	ErrInvalidLexiconData = errors.New("lexicon is invalid")
)

// MaxPageSize is the largest page NewsAPI serves per request.
const MaxPageSize = 100

// APIKeyEnv is the environment variable holding the NewsAPI key.
const APIKeyEnv = "NEWSAPI_KEY"

// Config represents the complete report generator configuration.
type Config struct {
	News     NewsConfig      `yaml:"news"`
	Output   OutputConfig    `yaml:"output"`
	Logging  LoggingConfig   `yaml:"logging"`
	Schedule ScheduleConfig  `yaml:"schedule"`
	Queries  []string        `yaml:"queries"`
	Lexicon  lexicon.Lexicon `yaml:"lexicon"`
}

// NewsConfig contains article source settings.
type NewsConfig struct {
	BaseURL         string `yaml:"base_url"`
	Language        string `yaml:"language"`
	SortBy          string `yaml:"sort_by"`
	File            string `yaml:"file"`
	APIKey          string `yaml:"-"`
	PageSize        int    `yaml:"page_size"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	RateLimitPerSec int    `yaml:"rate_limit_per_sec"`
	BufferSizeKb    int    `yaml:"buffer_size_kb"`
}

// IsLocalFile returns true if articles are read from a local JSON file.
func (n *NewsConfig) IsLocalFile() bool {
	return n.File != ""
}

// GetTimeout returns the HTTP timeout duration.
func (n *NewsConfig) GetTimeout() time.Duration {
	return time.Duration(n.TimeoutSec) * time.Second
}

// OutputConfig defines where and what is written.
type OutputConfig struct {
	BasePath string `yaml:"base_path"`
	ChartPNG bool   `yaml:"chart_png"`
	Manifest bool   `yaml:"manifest"`
}

// LoggingConfig defines logging behavior.
// An empty File means stderr.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ScheduleConfig defines the daily run used by schedule mode.
type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

// DefaultQueries are the topical queries fetched when none are configured.
func DefaultQueries() []string {
	return []string{
		"stock market",
		"crypto",
		"bitcoin",
		"technology stocks",
		"financial markets",
		"energy sector",
		"healthcare sector",
		"consumer discretionary sector",
		"industrial sector",
		"materials sector",
		"real estate market",
		"utilities sector",
	}
}

// Default returns a complete, valid configuration.
func Default() *Config {
	return &Config{
		News: NewsConfig{
			BaseURL:         "https://newsapi.org/v2/everything",
			Language:        "en",
			SortBy:          "publishedAt",
			PageSize:        5,
			TimeoutSec:      30,
			RateLimitPerSec: 5,
			BufferSizeKb:    2048,
		},
		Output: OutputConfig{
			BasePath: ".",
			ChartPNG: true,
			Manifest: true,
		},
		Logging: LoggingConfig{Level: "info"},
		Schedule: ScheduleConfig{
			Cron:     "0 7 * * *",
			Timezone: "UTC",
		},
		Queries: DefaultQueries(),
		Lexicon: lexicon.Default(),
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
// Sections and lists omitted from the file keep their defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv fills secrets from the environment.
func (c *Config) ApplyEnv() {
	c.News.APIKey = os.Getenv(APIKeyEnv)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Queries) == 0 {
		return ErrNoQueries
	}

	for i, q := range c.Queries {
		if utils.NewStringHelper().TrimWhitespace(q) == "" {
			return fmt.Errorf("%w: queries[%d]", ErrBlankQuery, i)
		}
	}

	// Validate news source
	if c.News.PageSize < 1 || c.News.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}

	if !c.News.IsLocalFile() && c.News.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if !c.News.IsLocalFile() && !utils.NewHTTPHelper().IsValidURL(c.News.BaseURL) {
		return fmt.Errorf("%w: %s", ErrInvalidBaseURL, c.News.BaseURL)
	}

	if c.News.Language == "" {
		return ErrMissingLanguage
	}

	if c.News.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.News.RateLimitPerSec < 0 {
		return ErrInvalidRateLimit
	}

	if c.News.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if c.Output.BasePath == "" {
		return ErrMissingOutputPath
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
		}
	}

	if _, err := c.Schedule.Location(); err != nil {
		return err
	}

	if err := c.Lexicon.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLexiconData, err)
	}

	return nil
}

// Location resolves the schedule timezone. An empty timezone means UTC.
func (s *ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, s.Timezone)
	}

	return loc, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	source := c.News.BaseURL
	if c.News.IsLocalFile() {
		source = c.News.File
	}

	return fmt.Sprintf(
		"Config{Queries: %d, PageSize: %d, Source: %s, Output: %s}",
		len(c.Queries),
		c.News.PageSize,
		source,
		c.Output.BasePath,
	)
}
