// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/jasurbekn/narxly/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Classify ClassifyConfig `yaml:"classify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CatalogConfig defines where listing exports live and how often the
// merged catalog is rebuilt.
type CatalogConfig struct {
	// DataDir holds the marketplace CSV exports. A missing directory
	// degrades to an empty catalog; it is never fatal.
	DataDir string `yaml:"data_dir"`

	// DefaultCategory is assigned when no classification rule matches.
	DefaultCategory string `yaml:"default_category"`

	// RefreshInterval drives the scheduled rebuild.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// RebuildPerMinute caps request-triggered rebuilds.
	RebuildPerMinute float64 `yaml:"rebuild_per_minute"`
}

// PricingConfig defines per-category minimum price floors. Listings priced
// below their category's floor are treated as mis-parsed noise and dropped.
type PricingConfig struct {
	DefaultFloor float64            `yaml:"default_floor"`
	Floors       map[string]float64 `yaml:"floors"`
}

// FloorFor returns the minimum acceptable price for a category.
// Groceries have no floor unless one is configured explicitly.
func (p *PricingConfig) FloorFor(c domain.Category) float64 {
	if f, ok := p.Floors[string(c)]; ok {
		return f
	}
	if c == domain.CategoryGroceries {
		return 0
	}
	return p.DefaultFloor
}

// ClassifyConfig overrides the built-in keyword rule table.
type ClassifyConfig struct {
	Rules []KeywordRule `yaml:"rules"`
}

// KeywordRule maps a keyword pattern to a category. Pattern is a regular
// expression evaluated against the lower-cased title (and URL when
// MatchURL is set). Rules are evaluated in order, first match wins.
type KeywordRule struct {
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
	MatchURL bool   `yaml:"match_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	ApplyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied, used when no
// config file is given.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCatalogDefaults(&cfg.Catalog)
	applyPricingDefaults(&cfg.Pricing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 4000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = string(domain.CategorySmartphones)
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = 5 * time.Minute
	}
	if c.RebuildPerMinute == 0 {
		c.RebuildPerMinute = 6
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.DefaultFloor == 0 {
		p.DefaultFloor = 5000
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in [0, 65535] (got %d)", cfg.Server.Port))
	}

	if cfg.Catalog.RefreshInterval < time.Second {
		errs = append(errs, fmt.Errorf(
			"catalog.refresh_interval must be at least 1s (got %s)",
			cfg.Catalog.RefreshInterval,
		))
	}

	if cfg.Catalog.RebuildPerMinute < 0 {
		errs = append(errs, fmt.Errorf("catalog.rebuild_per_minute must not be negative"))
	}

	for name, floor := range cfg.Pricing.Floors {
		if floor < 0 {
			errs = append(errs, fmt.Errorf("pricing.floors[%s] must not be negative", name))
		}
	}

	for i, r := range cfg.Classify.Rules {
		if r.Pattern == "" {
			errs = append(errs, fmt.Errorf("classify.rules[%d].pattern is required", i))
		}
		if r.Category == "" {
			errs = append(errs, fmt.Errorf("classify.rules[%d].category is required", i))
		}
	}

	return errors.Join(errs...)
}
