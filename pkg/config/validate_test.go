package config

import (
	"errors"
	"testing"
	"time"
)

func TestValidate_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidate_FieldViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty base URL",
			mutate:    func(c *Config) { c.BaseURL = "" },
			wantField: "base_url",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Timeout = 0 },
			wantField: "timeout",
		},
		{
			name:      "negative timeout",
			mutate:    func(c *Config) { c.Timeout = -1 * time.Second },
			wantField: "timeout",
		},
		{
			name:      "negative max retries",
			mutate:    func(c *Config) { c.MaxRetries = -1 },
			wantField: "max_retries",
		},
		{
			name:      "negative retry delay",
			mutate:    func(c *Config) { c.RetryDelay = -1 * time.Second },
			wantField: "retry_delay",
		},
		{
			name:      "temperature too high",
			mutate:    func(c *Config) { c.DefaultTemperature = 3.0 },
			wantField: "default_temperature",
		},
		{
			name:      "temperature negative",
			mutate:    func(c *Config) { c.DefaultTemperature = -0.1 },
			wantField: "default_temperature",
		},
		{
			name:      "top_p too high",
			mutate:    func(c *Config) { c.DefaultTopP = 1.5 },
			wantField: "default_top_p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestValidate_ReportsFirstViolation(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = ""
	cfg.Timeout = -1
	cfg.DefaultTemperature = 5.0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Field != "base_url" {
		t.Errorf("expected first violation (base_url), got %q", cfgErr.Field)
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	cfg := Default()
	cfg.DefaultTemperature = 2.0
	cfg.DefaultTopP = 1.0
	cfg.MaxRetries = 0
	cfg.RetryDelay = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("boundary values should be valid: %v", err)
	}

	cfg.DefaultTemperature = 0.0
	cfg.DefaultTopP = 0.0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero temperature/top_p should be valid: %v", err)
	}
}
