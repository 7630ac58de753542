package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecognition(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey reports a configuration error when no recognition credential
// is available. Commands that never reach the recognizer skip this check.
func (c *Config) RequireAPIKey() error {
	if c.Recognition.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/captioner/config.toml"
	}
	return fmt.Errorf("recognition.api_key is required. Set ASSEMBLYAI_API_KEY (environment or .env) or edit %s (create with 'captioner config init')", defaultPath)
}

func (c *Config) validateRecognition() error {
	if c.Recognition.TimeoutSeconds <= 0 {
		return errors.New("recognition.timeout_seconds must be positive")
	}
	if c.Recognition.UtteranceSplit < 0 {
		return errors.New("recognition.utterance_split must be >= 0")
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
