package config

import (
	"strconv"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvVault           = "BLOCKREF_VAULT"
	EnvLinkStyle       = "BLOCKREF_LINK_STYLE"
	EnvAvoidCollisions = "BLOCKREF_AVOID_COLLISIONS"
	EnvJournalPath     = "BLOCKREF_JOURNAL_PATH"
	EnvJournalDisabled = "BLOCKREF_JOURNAL_DISABLED"
	EnvLogLevel        = "BLOCKREF_LOG_LEVEL"
	EnvLogFormat       = "BLOCKREF_LOG_FORMAT"
	EnvMetricsTextfile = "BLOCKREF_METRICS_TEXTFILE"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files from the working directory. Missing files are
// skipped and variables already set in the process are never overwritten.
func loadEnvFiles() {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	if v, ok := lookup(EnvVault); ok && v != "" {
		cfg.Vault = v
	}
	if v, ok := lookup(EnvLinkStyle); ok && v != "" {
		cfg.Link.Style = reference.Style(v)
	}
	if v, ok := lookup(EnvJournalPath); ok && v != "" {
		cfg.Journal.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
	if v, ok := lookup(EnvMetricsTextfile); ok && v != "" {
		cfg.Metrics.Textfile = v
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvAvoidCollisions, &cfg.IDs.AvoidCollisions},
		{EnvJournalDisabled, &cfg.Journal.Disabled},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return errors.ConfigError("invalid boolean in environment").
				WithContext("variable", b.key).
				WithContext("value", v).
				Build()
		}
		*b.dst = parsed
	}
	return nil
}
