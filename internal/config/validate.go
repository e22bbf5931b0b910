package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Catalog API keys are not
// required here: commands that need one check for it and report a
// configuration error at the point of use.
func (c *Config) Validate() error {
	if err := c.validateCatalogs(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalogs() error {
	if _, err := url.Parse(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url: %w", err)
	}
	if _, err := url.Parse(c.OMDB.BaseURL); err != nil {
		return fmt.Errorf("omdb.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.DelayMS < 0 {
		return errors.New("enrichment.delay_ms must not be negative")
	}
	if c.Enrichment.RequestTimeout <= 0 {
		return errors.New("enrichment.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
