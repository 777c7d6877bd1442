package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"oxbow-hq/ganymede/pkg/config"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	return NewCollector(&config.MetricsConfig{Enabled: true}, prometheus.NewRegistry())
}

func TestRecordRequest(t *testing.T) {
	c := newTestCollector(t)

	c.RecordRequest("chat", "llama3.2:latest", "success", 250*time.Millisecond)
	c.RecordRequest("chat", "llama3.2:latest", "success", 500*time.Millisecond)
	c.RecordRequest("chat", "llama3.2:latest", "error", time.Second)

	success := c.requests.WithLabelValues("chat", "llama3.2:latest", "success")
	if got := testutil.ToFloat64(success); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	failed := c.requests.WithLabelValues("chat", "llama3.2:latest", "error")
	if got := testutil.ToFloat64(failed); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestRecordRequestEmptyModel(t *testing.T) {
	c := newTestCollector(t)
	c.RecordRequest("list_models", "", "success", time.Millisecond)

	counter := c.requests.WithLabelValues("list_models", "none", "success")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Errorf("count = %v, want 1 under the placeholder model label", got)
	}
}

func TestRecordError(t *testing.T) {
	c := newTestCollector(t)
	c.RecordError("chat", "connection")
	c.RecordError("chat", "connection")
	c.RecordError("embeddings", "protocol")

	if got := testutil.ToFloat64(c.errors.WithLabelValues("chat", "connection")); got != 2 {
		t.Errorf("connection errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.errors.WithLabelValues("embeddings", "protocol")); got != 1 {
		t.Errorf("protocol errors = %v, want 1", got)
	}
}

func TestRecordTokens(t *testing.T) {
	c := newTestCollector(t)
	c.RecordTokens("llama3.2:latest", 12, 34)
	c.RecordTokens("llama3.2:latest", 0, 6)

	if got := testutil.ToFloat64(c.tokens.WithLabelValues("llama3.2:latest", "prompt")); got != 12 {
		t.Errorf("prompt tokens = %v, want 12", got)
	}
	if got := testutil.ToFloat64(c.tokens.WithLabelValues("llama3.2:latest", "completion")); got != 40 {
		t.Errorf("completion tokens = %v, want 40", got)
	}
}

func TestSetAvailability(t *testing.T) {
	c := newTestCollector(t)

	c.SetAvailability(true)
	if got := testutil.ToFloat64(c.availability); got != 1 {
		t.Errorf("availability = %v, want 1", got)
	}
	c.SetAvailability(false)
	if got := testutil.ToFloat64(c.availability); got != 0 {
		t.Errorf("availability = %v, want 0", got)
	}
}

func TestDefaultNamespaceAndSubsystem(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(&config.MetricsConfig{}, reg)
	c.RecordRequest("chat", "m", "success", time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "ganymede_client_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Errorf("series under default name = %d, want 1", count)
	}
}
