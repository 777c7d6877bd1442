package ollama

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"oxbow-hq/ganymede/internal/ollamatest"
)

func newTestClient(t *testing.T, ms *ollamatest.MockServer) *Client {
	t.Helper()
	c := New(ollamatest.TestConfig(ms.URL()), nil)
	t.Cleanup(func() { c.Close() })
	return c
}

func initTestClient(t *testing.T, ms *ollamatest.MockServer) *Client {
	t.Helper()
	ms.SetResponse("/api/tags", ollamatest.TagsResponse("llama3.2:latest"))
	c := newTestClient(t, ms)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c
}

func TestInitializeSuccess(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	if !c.Available() {
		t.Error("expected client to be available after successful initialization")
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	before := ms.RequestCount()
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if got := ms.RequestCount(); got != before {
		t.Errorf("second Initialize probed the server: %d requests, want %d", got, before)
	}
}

func TestInitializeFailure(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	ms.SetResponse("/api/tags", ollamatest.ErrorResponse(http.StatusInternalServerError, "boom"))

	c := newTestClient(t, ms)
	err := c.Initialize(context.Background())
	if err == nil {
		t.Fatal("expected initialization error")
	}
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if c.Available() {
		t.Error("client should not be available after failed initialization")
	}
}

func TestInitializeUnreachableServer(t *testing.T) {
	cfg := ollamatest.TestConfig("http://127.0.0.1:1")
	c := New(cfg, nil)
	defer c.Close()

	err := c.Initialize(context.Background())
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %T: %v", err, err)
	}
}

func TestOperationsRequireInitialize(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := newTestClient(t, ms)
	_, err := c.ListModels(context.Background())
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError before Initialize, got %T: %v", err, err)
	}
	if ms.RequestCount() != 0 {
		t.Errorf("uninitialized client contacted the server: %d requests", ms.RequestCount())
	}
}

func TestCloseIsIdempotentAndTerminal(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if c.Available() {
		t.Error("closed client reports available")
	}
	if _, err := c.ListModels(context.Background()); err == nil {
		t.Error("expected error from closed client")
	}
	if err := c.Initialize(context.Background()); err == nil {
		t.Error("expected error re-initializing a closed client")
	}
}

func TestCustomHeadersSent(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	ms.SetResponse("/api/tags", ollamatest.TagsResponse())

	cfg := ollamatest.TestConfig(ms.URL())
	cfg.CustomHeaders = map[string]string{"Authorization": "Bearer token123"}
	c := New(cfg, nil)
	defer c.Close()

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	headers := ms.LastHeaders("/api/tags")
	if got := headers.Get("Authorization"); got != "Bearer token123" {
		t.Errorf("Authorization header = %q, want %q", got, "Bearer token123")
	}
	if headers.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on every request")
	}
}
