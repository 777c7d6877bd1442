package config

import "fmt"

// ConfigError reports an invalid or unparseable configuration. It is fatal
// at startup and never retried.
type ConfigError struct {
	// Field is the configuration field that is invalid, when known.
	Field string

	// Message describes the problem.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Validate checks every field invariant and returns a ConfigError for the
// first violation encountered, or nil if the configuration is valid.
// Construction paths that produce a ready-to-use Config call this before
// returning.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "base_url", Message: "base URL cannot be empty"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "timeout", Message: "timeout must be positive"}
	}
	if c.MaxRetries < 0 {
		return &ConfigError{Field: "max_retries", Message: "max retries cannot be negative"}
	}
	if c.RetryDelay < 0 {
		return &ConfigError{Field: "retry_delay", Message: "retry delay cannot be negative"}
	}
	if c.DefaultTemperature < 0.0 || c.DefaultTemperature > 2.0 {
		return &ConfigError{Field: "default_temperature", Message: "temperature must be between 0.0 and 2.0"}
	}
	if c.DefaultTopP < 0.0 || c.DefaultTopP > 1.0 {
		return &ConfigError{Field: "default_top_p", Message: "top_p must be between 0.0 and 1.0"}
	}
	return nil
}
