package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"oxbow-hq/ganymede/pkg/config"
	"oxbow-hq/ganymede/pkg/ollama"
	"oxbow-hq/ganymede/pkg/telemetry/logging"
	"oxbow-hq/ganymede/pkg/telemetry/metrics"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - a client for Ollama-compatible model servers",
	Long: `Ganymede is a command line client for Ollama-compatible model servers.

It provides:
  - Streaming and buffered chat and prompt completion
  - Embedding generation
  - Model administration (list, pull, delete, show, running models)
  - Scheduled model warming to avoid cold-start latency

Configuration comes from OLLAMA_* environment variables, optionally
overridden by a YAML config file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig builds the effective configuration and installs the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logging.Setup(&cfg.Logging)
	return cfg, nil
}

// newClient constructs and initializes a client, retrying the initial probe
// per the configured schedule. The caller must Close it.
func newClient(ctx context.Context, cfg *config.Config) (*ollama.Client, error) {
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, nil)
	}

	client := ollama.New(cfg, collector)
	err := ollama.Retry(ctx, ollama.RetryOptionsFromConfig(cfg.MaxRetries, cfg.RetryDelay), func(rctx context.Context) error {
		return client.Initialize(rctx)
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach model server at %s: %w", cfg.BaseURL, err)
	}
	return client, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
