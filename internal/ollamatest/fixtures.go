package ollamatest

import (
	"encoding/json"
	"net/http"
	"time"

	"oxbow-hq/ganymede/pkg/config"
)

// TestConfig returns a validated configuration pointing at baseURL with
// short timeouts suitable for tests.
func TestConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = 10 * time.Second
	cfg.RetryDelay = 10 * time.Millisecond
	return cfg
}

// TagsResponse builds an /api/tags body listing the given model names.
func TagsResponse(names ...string) MockResponse {
	models := make([]map[string]any, len(names))
	for i, name := range names {
		models[i] = map[string]any{
			"name":   name,
			"size":   int64(4_000_000_000),
			"digest": "sha256:deadbeef",
		}
	}
	return MockResponse{StatusCode: http.StatusOK, Body: map[string]any{"models": models}}
}

// ChatResponse builds a buffered /api/chat body.
func ChatResponse(model, content string, promptTokens, evalTokens int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body: map[string]any{
			"model":             model,
			"created_at":        "2025-01-01T00:00:00Z",
			"message":           map[string]any{"role": "assistant", "content": content},
			"done":              true,
			"done_reason":       "stop",
			"total_duration":    int64(1_500_000_000),
			"eval_count":        evalTokens,
			"eval_duration":     int64(1_000_000_000),
			"prompt_eval_count": promptTokens,
		},
	}
}

// GenerateResponse builds a buffered /api/generate body.
func GenerateResponse(model, content string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body: map[string]any{
			"model":       model,
			"created_at":  "2025-01-01T00:00:00Z",
			"response":    content,
			"done":        true,
			"done_reason": "stop",
			"context":     []int{1, 2, 3},
		},
	}
}

// ChatStreamLine encodes one /api/chat stream line.
func ChatStreamLine(model, content string, done bool) string {
	body := map[string]any{
		"model":      model,
		"created_at": "2025-01-01T00:00:00Z",
		"message":    map[string]any{"role": "assistant", "content": content},
		"done":       done,
	}
	if done {
		body["done_reason"] = "stop"
		body["eval_count"] = 42
		body["eval_duration"] = int64(2_000_000_000)
		body["prompt_eval_count"] = 7
		body["total_duration"] = int64(2_500_000_000)
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// GenerateStreamLine encodes one /api/generate stream line.
func GenerateStreamLine(model, content string, done bool) string {
	body := map[string]any{
		"model":      model,
		"created_at": "2025-01-01T00:00:00Z",
		"response":   content,
		"done":       done,
	}
	if done {
		body["done_reason"] = "stop"
		body["context"] = []int{4, 5}
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// EmbedResponse builds an /api/embed body with the given vectors.
func EmbedResponse(model string, embeddings [][]float64) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       map[string]any{"model": model, "embeddings": embeddings},
	}
}

// PullLine encodes one /api/pull progress line.
func PullLine(status, digest string, total, completed int64) string {
	body := map[string]any{"status": status}
	if digest != "" {
		body["digest"] = digest
		body["total"] = total
		body["completed"] = completed
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// ErrorResponse builds an error body in the server's shape.
func ErrorResponse(statusCode int, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body:       map[string]any{"error": message},
	}
}
