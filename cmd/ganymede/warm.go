package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"oxbow-hq/ganymede/pkg/ollama"
	"oxbow-hq/ganymede/pkg/telemetry/metrics"
	"oxbow-hq/ganymede/pkg/warmer"
)

var (
	warmOnce        bool
	warmMetricsAddr string
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Keep configured models loaded in server memory",
	Long: `Keep the models listed in the warmer configuration loaded in server
memory by pinging them on a cron schedule. With --once, run a single warm
cycle and exit.

With --metrics-addr, serve Prometheus metrics while running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := commandContext()
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Warmer.Models) == 0 {
			return fmt.Errorf("no models configured under warmer.models")
		}

		var collector *metrics.Collector
		if cfg.Metrics.Enabled {
			collector = metrics.NewCollector(&cfg.Metrics, nil)
		}

		client := ollama.New(cfg, collector)
		defer client.Close()
		err = ollama.Retry(ctx, ollama.RetryOptionsFromConfig(cfg.MaxRetries, cfg.RetryDelay), client.Initialize)
		if err != nil {
			return fmt.Errorf("failed to reach model server at %s: %w", cfg.BaseURL, err)
		}

		w := warmer.New(client, &cfg.Warmer)
		if warmOnce {
			w.Warm(ctx)
			return nil
		}

		if warmMetricsAddr != "" && collector != nil {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			go func() {
				_ = http.ListenAndServe(warmMetricsAddr, mux)
			}()
		}

		checker := ollama.NewChecker(client, 0)
		checker.Start()
		defer checker.Stop()

		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		w.Stop()
		return nil
	},
}

func init() {
	warmCmd.Flags().BoolVar(&warmOnce, "once", false, "run one warm cycle and exit")
	warmCmd.Flags().StringVar(&warmMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(warmCmd)
}
