package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"oxbow-hq/ganymede/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info line should have been filtered")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn line should have been emitted")
	}
}

func TestSetupToleratesBadConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&config.LoggingConfig{Level: "nonsense", Format: "nonsense"}, &buf)

	logger.Info("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Errorf("output = %q", buf.String())
	}
}
