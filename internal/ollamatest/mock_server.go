// Package ollamatest provides a mock Ollama server for exercising the
// client against canned responses, including newline-delimited JSON
// streams.
package ollamatest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockServer simulates an Ollama HTTP API. Responses are registered per
// path; unregistered paths return 404. Request bodies are recorded for
// assertion.
type MockServer struct {
	server *httptest.Server

	mu           sync.Mutex
	responses    map[string]MockResponse
	requestCount int
	requests     map[string][][]byte
	headers      map[string]http.Header
}

// MockResponse defines what the server returns for one path.
type MockResponse struct {
	StatusCode int
	Body       any
	Headers    map[string]string
	Delay      time.Duration

	// Lines, when set, are written one per line with a flush between
	// them, simulating an NDJSON stream.
	Lines []string

	// LineDelay spaces out stream lines, simulating a slow generation.
	LineDelay time.Duration
}

// NewMockServer starts a mock server; callers must Close it.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
		requests:  make(map[string][][]byte),
		headers:   make(map[string]http.Header),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts the server down.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse registers the response for a path, replacing any previous
// registration.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = response
}

// RequestCount returns the total number of requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount
}

// LastRequest returns the most recent request body received on a path, or
// nil if the path was never hit.
func (ms *MockServer) LastRequest(path string) []byte {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	bodies := ms.requests[path]
	if len(bodies) == 0 {
		return nil
	}
	return bodies[len(bodies)-1]
}

// LastHeaders returns the headers of the most recent request on a path.
func (ms *MockServer) LastHeaders(path string) http.Header {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.headers[path]
}

// DecodeLastRequest unmarshals the most recent request body on a path.
func (ms *MockServer) DecodeLastRequest(path string, out any) error {
	body := ms.LastRequest(path)
	if body == nil {
		return fmt.Errorf("no request recorded for %s", path)
	}
	return json.Unmarshal(body, out)
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requestCount++
	ms.requests[r.URL.Path] = append(ms.requests[r.URL.Path], body)
	ms.headers[r.URL.Path] = r.Header.Clone()
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		time.Sleep(response.Delay)
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	if len(response.Lines) > 0 {
		ms.streamLines(w, response)
		return
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (ms *MockServer) streamLines(w http.ResponseWriter, response MockResponse) {
	w.Header().Set("Content-Type", "application/x-ndjson")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	for i, line := range response.Lines {
		if i > 0 && response.LineDelay > 0 {
			time.Sleep(response.LineDelay)
		}
		fmt.Fprintf(w, "%s\n", line)
		flusher.Flush()
	}
}
