package config

import "time"

// Default values for configuration fields.
const (
	// Connection defaults
	DefaultBaseURL    = "http://localhost:11434"
	DefaultTimeout    = 300 * time.Second
	DefaultKeepAlive  = "5m"
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultVerifySSL  = true

	// Model parameter defaults
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultStream      = true

	// Logging defaults
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"

	// Metrics defaults
	DefaultMetricsEnabled   = false
	DefaultMetricsNamespace = "ganymede"
	DefaultMetricsSubsystem = "client"

	// Warmer defaults
	DefaultWarmerSchedule = "@every 4m"
)

// Default returns a configuration populated with default values for every
// field. The result passes Validate.
func Default() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		Timeout:            DefaultTimeout,
		KeepAlive:          DefaultKeepAlive,
		MaxRetries:         DefaultMaxRetries,
		RetryDelay:         DefaultRetryDelay,
		DefaultTemperature: DefaultTemperature,
		DefaultTopP:        DefaultTopP,
		DefaultStream:      DefaultStream,
		VerifySSL:          DefaultVerifySSL,
		Logging: LoggingConfig{
			Level:  DefaultLoggingLevel,
			Format: DefaultLoggingFormat,
		},
		Metrics: MetricsConfig{
			Enabled:   DefaultMetricsEnabled,
			Namespace: DefaultMetricsNamespace,
			Subsystem: DefaultMetricsSubsystem,
		},
		Warmer: WarmerConfig{
			Schedule: DefaultWarmerSchedule,
		},
	}
}

// ApplyDefaults fills zero-valued fields with defaults. It is idempotent and
// safe to call on a partially populated configuration.
func ApplyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.KeepAlive == "" {
		cfg.KeepAlive = DefaultKeepAlive
	}
	if cfg.DefaultTemperature == 0 {
		cfg.DefaultTemperature = DefaultTemperature
	}
	if cfg.DefaultTopP == 0 {
		cfg.DefaultTopP = DefaultTopP
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Warmer.Schedule == "" {
		cfg.Warmer.Schedule = DefaultWarmerSchedule
	}
}
