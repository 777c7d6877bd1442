package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by FromEnv.
//
//	OLLAMA_BASE_URL     server endpoint            (default http://localhost:11434)
//	OLLAMA_TIMEOUT      request timeout, seconds   (default 300)
//	OLLAMA_KEEP_ALIVE   model keep-alive           (default 5m)
//	OLLAMA_MAX_RETRIES  retry attempts             (default 3)
//	OLLAMA_RETRY_DELAY  backoff base, seconds      (default 1.0)
//	OLLAMA_VERIFY_SSL   TLS verification           (default true)
//	OLLAMA_LOG_LEVEL    log level                  (default info)
//	OLLAMA_LOG_FORMAT   log format                 (default text)

// FromEnv builds a configuration from recognized environment variables,
// applying documented defaults for any absent variable. The result is not
// yet validated; call Validate before use, or use Load which validates.
func FromEnv() *Config {
	cfg := Default()

	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OLLAMA_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("OLLAMA_KEEP_ALIVE"); v != "" {
		cfg.KeepAlive = v
	}
	if v := os.Getenv("OLLAMA_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("OLLAMA_RETRY_DELAY"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RetryDelay = time.Duration(secs * float64(time.Second))
		}
	}
	if v := os.Getenv("OLLAMA_VERIFY_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.VerifySSL = b
		}
	}
	if v := os.Getenv("OLLAMA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OLLAMA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	return cfg
}

// duration accepts either a Go duration string ("30s", "5m") or a bare
// number of seconds in YAML.
type duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var secs float64
	if err := value.Decode(&secs); err == nil {
		*d = duration(secs * float64(time.Second))
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

// fileOverlay mirrors Config with pointer fields so that only keys present
// in the file override the base configuration. Unknown keys are ignored for
// forward compatibility.
type fileOverlay struct {
	BaseURL            *string           `yaml:"base_url"`
	Timeout            *duration         `yaml:"timeout"`
	KeepAlive          *string           `yaml:"keep_alive"`
	MaxRetries         *int              `yaml:"max_retries"`
	RetryDelay         *duration         `yaml:"retry_delay"`
	DefaultTemperature *float64          `yaml:"default_temperature"`
	DefaultTopP        *float64          `yaml:"default_top_p"`
	DefaultStream      *bool             `yaml:"default_stream"`
	VerifySSL          *bool             `yaml:"verify_ssl"`
	CustomHeaders      map[string]string `yaml:"custom_headers"`

	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled   *bool   `yaml:"enabled"`
		Namespace *string `yaml:"namespace"`
		Subsystem *string `yaml:"subsystem"`
	} `yaml:"metrics"`

	Warmer struct {
		Enabled  *bool    `yaml:"enabled"`
		Schedule *string  `yaml:"schedule"`
		Models   []string `yaml:"models"`
	} `yaml:"warmer"`
}

// MergeFile parses a YAML file and overrides the receiver's value for every
// key present in the file. Keys absent from the file leave the base value
// untouched; unknown keys are ignored. Malformed file content fails with a
// ConfigError.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{
			Message: fmt.Sprintf("failed to read config file %q", path),
			Cause:   err,
		}
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return &ConfigError{
			Message: fmt.Sprintf("failed to parse config file %q", path),
			Cause:   err,
		}
	}

	if overlay.BaseURL != nil {
		c.BaseURL = *overlay.BaseURL
	}
	if overlay.Timeout != nil {
		c.Timeout = time.Duration(*overlay.Timeout)
	}
	if overlay.KeepAlive != nil {
		c.KeepAlive = *overlay.KeepAlive
	}
	if overlay.MaxRetries != nil {
		c.MaxRetries = *overlay.MaxRetries
	}
	if overlay.RetryDelay != nil {
		c.RetryDelay = time.Duration(*overlay.RetryDelay)
	}
	if overlay.DefaultTemperature != nil {
		c.DefaultTemperature = *overlay.DefaultTemperature
	}
	if overlay.DefaultTopP != nil {
		c.DefaultTopP = *overlay.DefaultTopP
	}
	if overlay.DefaultStream != nil {
		c.DefaultStream = *overlay.DefaultStream
	}
	if overlay.VerifySSL != nil {
		c.VerifySSL = *overlay.VerifySSL
	}
	if overlay.CustomHeaders != nil {
		c.CustomHeaders = overlay.CustomHeaders
	}
	if overlay.Logging.Level != nil {
		c.Logging.Level = *overlay.Logging.Level
	}
	if overlay.Logging.Format != nil {
		c.Logging.Format = *overlay.Logging.Format
	}
	if overlay.Metrics.Enabled != nil {
		c.Metrics.Enabled = *overlay.Metrics.Enabled
	}
	if overlay.Metrics.Namespace != nil {
		c.Metrics.Namespace = *overlay.Metrics.Namespace
	}
	if overlay.Metrics.Subsystem != nil {
		c.Metrics.Subsystem = *overlay.Metrics.Subsystem
	}
	if overlay.Warmer.Enabled != nil {
		c.Warmer.Enabled = *overlay.Warmer.Enabled
	}
	if overlay.Warmer.Schedule != nil {
		c.Warmer.Schedule = *overlay.Warmer.Schedule
	}
	if overlay.Warmer.Models != nil {
		c.Warmer.Models = overlay.Warmer.Models
	}

	return nil
}

// Load builds a ready-to-use configuration. It starts from the environment,
// merges the YAML file at path if one is given (file values win over
// environment values for matching keys), and validates the result.
func Load(path string) (*Config, error) {
	cfg := FromEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &ConfigError{Field: "config_file", Message: fmt.Sprintf("config file %q not readable", path), Cause: err}
		}
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
