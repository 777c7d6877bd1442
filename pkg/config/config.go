package config

import "time"

// Config holds the connection and default-parameter settings for an Ollama
// client. It is built once at startup (from the environment, an optional
// YAML file, or explicit values), validated, and treated as read-only
// afterwards. A validated Config is safe to share across goroutines.
type Config struct {
	// BaseURL is the network endpoint of the model server.
	BaseURL string `yaml:"base_url"`

	// Timeout is the maximum duration for a full request round-trip.
	Timeout time.Duration `yaml:"timeout"`

	// KeepAlive tells the server how long to keep a model loaded after a
	// request (e.g. "5m", "1h"). It is forwarded verbatim on every
	// chat/generate/embed request.
	KeepAlive string `yaml:"keep_alive"`

	// MaxRetries is the maximum number of retry attempts for callers that
	// opt into the retry helper.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff between retries.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// DefaultTemperature is the sampling temperature for callers that read
	// their defaults from configuration. Requests that set nothing omit the
	// field so the server's own default applies. Must be within [0.0, 2.0].
	DefaultTemperature float64 `yaml:"default_temperature"`

	// DefaultTopP is the nucleus sampling value for callers that read their
	// defaults from configuration. Must be within [0.0, 1.0].
	DefaultTopP float64 `yaml:"default_top_p"`

	// DefaultStream selects streaming delivery when a caller does not choose
	// a mode explicitly.
	DefaultStream bool `yaml:"default_stream"`

	// VerifySSL controls TLS certificate verification. Disable only for
	// local servers with self-signed certificates.
	VerifySSL bool `yaml:"verify_ssl"`

	// CustomHeaders are additional HTTP headers sent on every request.
	CustomHeaders map[string]string `yaml:"custom_headers"`

	// Logging configures the process-wide structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `yaml:"metrics"`

	// Warmer configures the scheduled model keep-alive pinger.
	Warmer WarmerConfig `yaml:"warmer"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics collector.
type MetricsConfig struct {
	// Enabled turns metric collection on or off.
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	Subsystem string `yaml:"subsystem"`
}

// WarmerConfig configures the scheduled keep-alive pinger that keeps models
// resident in server memory.
type WarmerConfig struct {
	// Enabled turns the warmer on or off.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression describing how often to ping.
	Schedule string `yaml:"schedule"`

	// Models lists the model names to keep loaded.
	Models []string `yaml:"models"`
}

// Clone returns a deep copy of the configuration. Callers that need to
// derive a modified configuration should clone and re-validate rather than
// mutate a shared instance.
func (c *Config) Clone() *Config {
	out := *c
	if c.CustomHeaders != nil {
		out.CustomHeaders = make(map[string]string, len(c.CustomHeaders))
		for k, v := range c.CustomHeaders {
			out.CustomHeaders[k] = v
		}
	}
	if c.Warmer.Models != nil {
		out.Warmer.Models = append([]string(nil), c.Warmer.Models...)
	}
	return &out
}
