// Package config loads blockref settings from .blockref.yaml, .env files and
// BLOCKREF_* environment variables, in that order of increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/retry"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is looked up in the vault root when no path is given.
	DefaultFileName = ".blockref.yaml"

	defaultJournalPath = ".blockref/journal.db"
)

// Config is the complete blockref configuration.
type Config struct {
	Vault   string        `yaml:"vault"`
	Link    LinkConfig    `yaml:"link"`
	IDs     IDsConfig     `yaml:"ids"`
	Journal JournalConfig `yaml:"journal"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LinkConfig selects the link dialect written on copy and paste.
type LinkConfig struct {
	Style reference.Style `yaml:"style"`
}

// IDsConfig controls block id minting.
type IDsConfig struct {
	// AvoidCollisions redraws ids that already exist in the document.
	AvoidCollisions bool `yaml:"avoid_collisions"`
}

// JournalConfig locates the copy/paste journal. A relative path is resolved
// against the vault root.
type JournalConfig struct {
	Path     string      `yaml:"path"`
	Disabled bool        `yaml:"disabled"`
	Retry    RetryConfig `yaml:"retry"`
}

// RetryConfig is the backoff applied when another process holds the journal
// locked.
type RetryConfig struct {
	Mode    retry.Mode    `yaml:"mode"`
	Initial time.Duration `yaml:"initial"`
	Max     time.Duration `yaml:"max"`
	Retries int           `yaml:"retries"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	backoff := retry.DefaultPolicy()
	return &Config{
		Vault:   ".",
		Link:    LinkConfig{Style: reference.StyleWikilink},
		IDs:     IDsConfig{AvoidCollisions: true},
		Journal: JournalConfig{
			Path: defaultJournalPath,
			Retry: RetryConfig{
				Mode:    backoff.Mode,
				Initial: backoff.Initial,
				Max:     backoff.Max,
				Retries: backoff.MaxRetries,
			},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Discover returns the default config file inside vault, or "" when there is none.
func Discover(vault string) string {
	p := filepath.Join(vault, DefaultFileName)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty), .env files and the process environment. The result is normalized
// and validated.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.ConfigError("configuration file not found").
					WithContext("path", path).
					Build()
			}
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
				WithContext("path", path).
				Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file").
				WithContext("path", path).
				Build()
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// JournalPath returns the journal location with relative paths anchored at the vault.
func (c *Config) JournalPath() string {
	if c.Journal.Path == "" || filepath.IsAbs(c.Journal.Path) {
		return c.Journal.Path
	}
	return filepath.Join(c.Vault, c.Journal.Path)
}

// RetryPolicy returns the journal backoff policy.
func (c *Config) RetryPolicy() retry.Policy {
	r := c.Journal.Retry
	return retry.NewPolicy(r.Mode, r.Initial, r.Max, r.Retries)
}
