package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Embeddings computes one embedding vector per input text, preserving
// order. The input slice must be non-empty. A response whose vector count
// does not match the input count is a protocol violation and is never
// silently truncated.
func (c *Client) Embeddings(ctx context.Context, model string, texts []string) ([][]float64, error) {
	const op = "embeddings"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if model == "" {
		return nil, &ValidationError{Field: "model", Message: "model name must not be empty"}
	}
	if len(texts) == 0 {
		return nil, &ValidationError{Field: "texts", Message: "texts must not be empty"}
	}

	req := &embedRequest{
		Model:     model,
		Input:     texts,
		KeepAlive: c.cfg.KeepAlive,
	}

	start := time.Now()
	var body embedResponse
	err := c.doJSON(ctx, op, model, http.MethodPost, "/api/embed", req, &body)
	if err != nil {
		c.observe(op, model, start, err)
		return nil, err
	}

	if len(body.Embeddings) != len(texts) {
		err = &ProtocolError{
			Op:      op,
			Message: fmt.Sprintf("expected %d embeddings, server returned %d", len(texts), len(body.Embeddings)),
		}
		c.observe(op, model, start, err)
		return nil, err
	}

	c.observe(op, model, start, nil)
	return body.Embeddings, nil
}
