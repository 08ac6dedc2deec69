package config

import (
	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/reference"
	"git.home.luguber.info/inful/blockref/internal/retry"
)

// Normalize canonicalizes enum fields and validates the result. Unknown enum
// values are config errors naming the valid options.
func (c *Config) Normalize() error {
	style, err := reference.ParseStyle(string(c.Link.Style))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid link.style").Build()
	}
	c.Link.Style = style

	level, err := logLevelNormalizer.Parse(string(c.Logging.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.level").Build()
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.Parse(string(c.Logging.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Build()
	}
	c.Logging.Format = format

	mode, err := retry.ParseMode(string(c.Journal.Retry.Mode))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid journal.retry.mode").Build()
	}
	c.Journal.Retry.Mode = mode

	return c.Validate()
}

// Validate checks fields that have no canonical form.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return errors.ConfigError("vault must not be empty").Build()
	}
	if !c.Journal.Disabled && c.Journal.Path == "" {
		return errors.ConfigError("journal.path must be set unless journal.disabled is true").Build()
	}
	r := c.Journal.Retry
	backoff := retry.Policy{Mode: r.Mode, Initial: r.Initial, Max: r.Max, MaxRetries: r.Retries}
	if err := backoff.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid journal.retry").Build()
	}
	return nil
}
