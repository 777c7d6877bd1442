package ollama

import (
	"net/http"
	"testing"
	"time"

	"oxbow-hq/ganymede/internal/ollamatest"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestCheckerTracksAvailability(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	checker := NewChecker(c, 20*time.Millisecond)
	checker.Start()
	defer checker.Stop()

	ms.SetResponse("/api/tags", ollamatest.ErrorResponse(http.StatusServiceUnavailable, "down"))
	if !waitFor(t, 3*time.Second, func() bool { return !c.Available() }) {
		t.Fatal("checker never noticed the server going away")
	}

	ms.SetResponse("/api/tags", ollamatest.TagsResponse("llama3.2:latest"))
	if !waitFor(t, 3*time.Second, func() bool { return c.Available() }) {
		t.Fatal("checker never noticed the server recovering")
	}
}

func TestCheckerStopIsIdempotent(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	checker := NewChecker(c, time.Hour)
	checker.Start()
	checker.Stop()
	checker.Stop()
}

func TestCheckerStopBeforeStart(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	checker := NewChecker(c, time.Hour)

	done := make(chan struct{})
	go func() {
		checker.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop before Start must not block")
	}
}

func TestCheckerStopsWhenClientCloses(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()

	c := initTestClient(t, ms)
	checker := NewChecker(c, 10*time.Millisecond)
	checker.Start()

	c.Close()

	done := make(chan struct{})
	go func() {
		checker.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("checker did not stop after client close")
	}
}
