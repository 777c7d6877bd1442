package ollama

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultCheckInterval = 30 * time.Second
	probeTimeout         = 10 * time.Second

	// An unavailable server is probed less aggressively, doubling the
	// interval per consecutive failure up to this ceiling.
	maxCheckInterval = 5 * time.Minute
)

// Checker re-probes the server in the background and keeps the client's
// availability flag current, so a server that goes away and comes back is
// noticed without any caller traffic.
type Checker struct {
	client   *Client
	interval time.Duration
	log      *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewChecker creates a checker probing at the given interval; zero or
// negative means the default of 30 seconds.
func NewChecker(client *Client, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &Checker{
		client:   client,
		interval: interval,
		log:      slog.Default().With("component", "health"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the probe loop. Calling Start more than once has no
// effect.
func (h *Checker) Start() {
	h.startOnce.Do(func() {
		h.started.Store(true)
		go h.run()
	})
}

// Stop terminates the probe loop and waits for it to exit. Safe to call
// multiple times, including before Start.
func (h *Checker) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	if h.started.Load() {
		<-h.done
	}
}

func (h *Checker) run() {
	defer close(h.done)

	interval := h.interval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-h.stop:
			return
		case <-h.client.closeCtx.Done():
			return
		}

		if h.probe() {
			interval = h.interval
		} else {
			interval = min(interval*2, maxCheckInterval)
		}
		timer.Reset(interval)
	}
}

func (h *Checker) probe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	wasAvailable := h.client.Available()
	_, err := h.client.fetchTags(ctx, "health_check")
	h.client.setAvailable(err == nil, err)

	switch {
	case err != nil && wasAvailable:
		h.log.Warn("server became unavailable", "base_url", h.client.cfg.BaseURL, "error", err)
	case err == nil && !wasAvailable:
		h.log.Info("server recovered", "base_url", h.client.cfg.BaseURL)
	}
	return err == nil
}
