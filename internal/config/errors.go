package config

import "strings"

// ConfigError reports missing or malformed configuration. It is fatal at
// startup: the scheduler never starts without a valid Config.
type ConfigError struct {
	Problems []string
	Err      error
}

func (e *ConfigError) Error() string {
	return "config validation failed:\n- " + strings.Join(e.Problems, "\n- ")
}

func (e *ConfigError) Unwrap() error { return e.Err }
