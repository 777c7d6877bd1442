package ollama

import (
	"context"
	"net/http"
	"time"
)

// Generate sends a single prompt completion and waits for the full reply.
func (c *Client) Generate(ctx context.Context, model, prompt string, params *Parameters) (*Response, error) {
	const op = "generate"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if err := validateGenerate(model, prompt); err != nil {
		return nil, err
	}

	req := &generateRequest{
		Model:     model,
		Prompt:    prompt,
		Stream:    false,
		KeepAlive: c.cfg.KeepAlive,
		Options:   params.options(),
	}

	start := time.Now()
	var body completionBody
	err := c.doJSON(ctx, op, model, http.MethodPost, "/api/generate", req, &body)
	c.observe(op, model, start, err)
	if err != nil {
		return nil, err
	}

	resp := body.toResponse(false)
	c.recordUsage(model, body.usage())
	return resp, nil
}

// StreamGenerate sends a single prompt completion and returns a channel of
// incremental chunks, with the same termination contract as StreamChat.
func (c *Client) StreamGenerate(ctx context.Context, model, prompt string, params *Parameters) (<-chan *StreamChunk, error) {
	const op = "stream_generate"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if err := validateGenerate(model, prompt); err != nil {
		return nil, err
	}

	req := &generateRequest{
		Model:     model,
		Prompt:    prompt,
		Stream:    true,
		KeepAlive: c.cfg.KeepAlive,
		Options:   params.options(),
	}

	return c.stream(ctx, op, model, "/api/generate", req, streamGenerate)
}

// LoadModel asks the server to load a model into memory without running any
// inference, using an empty generate request. The configured keep-alive
// controls how long the model stays resident afterwards.
func (c *Client) LoadModel(ctx context.Context, model string) error {
	const op = "load_model"
	if err := c.ensureReady(op); err != nil {
		return err
	}
	if model == "" {
		return &ValidationError{Field: "model", Message: "model name must not be empty"}
	}

	req := &generateRequest{
		Model:     model,
		Stream:    false,
		KeepAlive: c.cfg.KeepAlive,
	}

	start := time.Now()
	err := c.doJSON(ctx, op, model, http.MethodPost, "/api/generate", req, nil)
	c.observe(op, model, start, err)
	return err
}

func validateGenerate(model, prompt string) error {
	if model == "" {
		return &ValidationError{Field: "model", Message: "model name must not be empty"}
	}
	if prompt == "" {
		return &ValidationError{Field: "prompt", Message: "prompt must not be empty"}
	}
	return nil
}
