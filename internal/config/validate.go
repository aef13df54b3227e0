package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrMissingAPIKey is returned by RequireTMDBKey when TMDB is enabled without a key.
var ErrMissingAPIKey = errors.New("tmdb.api_key is required")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireTMDBKey reports a descriptive error when the TMDB provider is enabled
// but no API key was configured. Tagging runs log it as a warning; config
// validate treats it as fatal.
func (c *Config) RequireTMDBKey() error {
	if !c.Providers.TMDB || c.TMDB.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%w. Set TMDB_API_KEY env var or edit %s (create with 'keywordtagger config init')", ErrMissingAPIKey, defaultPath)
}

func (c *Config) validateTMDB() error {
	if c.TMDB.TimeoutSeconds <= 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	if c.Providers.TMDB && strings.TrimSpace(c.TMDB.BaseURL) == "" {
		return errors.New("tmdb.base_url must be set when providers.tmdb is true")
	}
	return nil
}

func (c *Config) validateScan() error {
	if !strings.HasPrefix(c.Scan.Extension, ".") || len(c.Scan.Extension) < 2 {
		return fmt.Errorf("scan.extension must start with a dot, got %q", c.Scan.Extension)
	}
	for _, pattern := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.exclude: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
