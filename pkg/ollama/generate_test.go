package ollama

import (
	"context"
	"errors"
	"strings"
	"testing"

	"oxbow-hq/ganymede/internal/ollamatest"
)

func TestGenerate(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	ms.SetResponse("/api/generate", ollamatest.GenerateResponse("m", "four"))

	c := initTestClient(t, ms)
	resp, err := c.Generate(context.Background(), "m", "What is 2+2?", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if resp.Content != "four" {
		t.Errorf("Content = %q, want %q", resp.Content, "four")
	}
	if _, ok := resp.Metadata["context"]; !ok {
		t.Error("generate responses should carry the context token array")
	}
}

func TestGenerateValidation(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	c := initTestClient(t, ms)

	_, err := c.Generate(context.Background(), "m", "", nil)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for empty prompt, got %T: %v", err, err)
	}
	if validationErr.Field != "prompt" {
		t.Errorf("Field = %q, want %q", validationErr.Field, "prompt")
	}
}

func TestStreamGenerate(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	ms.SetResponse("/api/generate", ollamatest.MockResponse{Lines: []string{
		ollamatest.GenerateStreamLine("m", "fo", false),
		ollamatest.GenerateStreamLine("m", "ur", false),
		ollamatest.GenerateStreamLine("m", "", true),
	}})

	c := initTestClient(t, ms)
	ch, err := c.StreamGenerate(context.Background(), "m", "What is 2+2?", nil)
	if err != nil {
		t.Fatalf("StreamGenerate: %v", err)
	}

	var content strings.Builder
	var sawFinal bool
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("unexpected stream error: %v", chunk.Err)
		}
		content.WriteString(chunk.Content)
		if chunk.Final {
			sawFinal = true
			if _, ok := chunk.Metadata["context"]; !ok {
				t.Error("final generate chunk should carry the context token array")
			}
		}
	}

	if content.String() != "four" {
		t.Errorf("content = %q, want %q", content.String(), "four")
	}
	if !sawFinal {
		t.Error("stream ended without a final chunk")
	}
}

func TestLoadModel(t *testing.T) {
	ms := ollamatest.NewMockServer()
	defer ms.Close()
	ms.SetResponse("/api/generate", ollamatest.GenerateResponse("m", ""))

	c := initTestClient(t, ms)
	if err := c.LoadModel(context.Background(), "m"); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	var req struct {
		Model     string  `json:"model"`
		Prompt    *string `json:"prompt"`
		KeepAlive string  `json:"keep_alive"`
	}
	if err := ms.DecodeLastRequest("/api/generate", &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.Model != "m" {
		t.Errorf("model = %q, want %q", req.Model, "m")
	}
	if req.Prompt != nil {
		t.Error("load request must omit the prompt")
	}
	if req.KeepAlive != "5m" {
		t.Errorf("keep_alive = %q, want %q", req.KeepAlive, "5m")
	}
}
