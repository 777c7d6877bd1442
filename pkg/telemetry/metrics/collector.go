package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"oxbow-hq/ganymede/pkg/config"
)

// Collector owns the Prometheus instruments for the client: request counts
// and latency, error counts by kind, token throughput, and a server
// availability gauge.
//
// Metrics (with the default namespace and subsystem):
//   - ganymede_client_requests_total{op,model,status}
//   - ganymede_client_request_duration_seconds{op}
//   - ganymede_client_errors_total{op,kind}
//   - ganymede_client_tokens_total{model,direction}
//   - ganymede_client_server_available
type Collector struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	tokens       *prometheus.CounterVec
	availability prometheus.Gauge
}

// NewCollector creates a collector and registers its instruments with the
// given registry. If registry is nil a fresh registry is created; Registry
// exposes whichever one is in use so callers can mount an exporter.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}
	subsystem := cfg.Subsystem
	if subsystem == "" {
		subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		registry: registry,

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total requests issued to the model server",
			},
			[]string{"op", "model", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Request latency in seconds, end to end including streaming",
				// Local model latencies span interactive probes to long generations.
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"op"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "errors_total",
				Help:      "Total failed requests by error kind",
			},
			[]string{"op", "kind"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tokens_total",
				Help:      "Total tokens processed by direction (prompt or completion)",
			},
			[]string{"model", "direction"},
		),

		availability: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "server_available",
				Help:      "Whether the model server answered its last probe (1=yes, 0=no)",
			},
		),
	}

	registry.MustRegister(c.requests, c.duration, c.errors, c.tokens, c.availability)
	return c
}

// Registry returns the registry the collector's instruments live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records one completed request with its outcome and latency.
func (c *Collector) RecordRequest(op, model, status string, elapsed time.Duration) {
	if model == "" {
		model = "none"
	}
	c.requests.WithLabelValues(op, model, status).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordError counts one failed request under its error kind.
func (c *Collector) RecordError(op, kind string) {
	c.errors.WithLabelValues(op, kind).Inc()
}

// RecordTokens adds the token usage reported by the server for one
// completed exchange.
func (c *Collector) RecordTokens(model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		c.tokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.tokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// SetAvailability updates the server availability gauge.
func (c *Collector) SetAvailability(available bool) {
	if available {
		c.availability.Set(1)
	} else {
		c.availability.Set(0)
	}
}
