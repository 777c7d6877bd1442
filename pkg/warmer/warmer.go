// Package warmer keeps configured models resident in server memory by
// pinging them on a cron schedule. Without it, a model whose keep-alive
// lapses pays a multi-second load penalty on the next request.
package warmer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"oxbow-hq/ganymede/pkg/config"
	"oxbow-hq/ganymede/pkg/ollama"
)

// warmTimeout bounds one warm cycle; loading a large model from disk can
// take a while.
const warmTimeout = 2 * time.Minute

// Warmer schedules periodic load requests for a fixed set of models. The
// schedule should fire comfortably inside the configured keep-alive window
// so models never actually unload.
type Warmer struct {
	client *ollama.Client
	cfg    *config.WarmerConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a warmer for the given client. The configuration is not
// validated until Start.
func New(client *ollama.Client, cfg *config.WarmerConfig) *Warmer {
	return &Warmer{
		client: client,
		cfg:    cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "warmer"),
	}
}

// Start validates the schedule, runs one immediate warm cycle, and begins
// the recurring schedule. A warmer with no configured models does nothing.
// The warmer stops when ctx is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.cfg.Models) == 0 {
		w.logger.Info("no models configured, warmer idle")
		return nil
	}

	schedule := w.cfg.Schedule
	if schedule == "" {
		schedule = config.DefaultWarmerSchedule
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}

	if _, err := w.cron.AddFunc(schedule, func() {
		w.Warm(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule warming: %w", err)
	}

	w.Warm(ctx)

	w.cron.Start()
	w.running = true

	w.logger.Info("warmer started",
		"schedule", schedule,
		"models", w.cfg.Models,
	)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}

// Warm runs one cycle, loading every configured model. Transient failures
// are retried with the standard backoff; a model that still fails is logged
// and skipped so one bad model does not block the rest.
func (w *Warmer) Warm(ctx context.Context) {
	for _, model := range w.cfg.Models {
		cctx, cancel := context.WithTimeout(ctx, warmTimeout)
		err := ollama.Retry(cctx, ollama.RetryOptionsFromConfig(2, time.Second), func(rctx context.Context) error {
			return w.client.LoadModel(rctx, model)
		})
		cancel()

		if err != nil {
			w.logger.Warn("failed to warm model", "model", model, "error", err)
			continue
		}
		w.logger.Debug("model warmed", "model", model)
	}
}

// Stop halts the schedule and waits for a running cycle to finish. Safe to
// call multiple times.
func (w *Warmer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	<-w.cron.Stop().Done()
	w.running = false
	w.logger.Info("warmer stopped")
}

// IsRunning reports whether the schedule is active.
func (w *Warmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// NextRun returns the next scheduled warm time, or zero if the warmer is
// not running.
func (w *Warmer) NextRun() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
