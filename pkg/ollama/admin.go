package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// fetchTags lists the server's installed models. It does not require the
// ready state so initialization and availability probes can reuse it.
func (c *Client) fetchTags(ctx context.Context, op string) ([]ModelInfo, error) {
	var body tagsResponse
	if err := c.doJSON(ctx, op, "", http.MethodGet, "/api/tags", nil, &body); err != nil {
		return nil, err
	}
	return body.Models, nil
}

// ListModels returns the names of all models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	const op = "list_models"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}

	start := time.Now()
	models, err := c.fetchTags(ctx, op)
	c.observe(op, "", start, err)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names, nil
}

// ListModelDetails returns the full tag listing including sizes, digests
// and model family details.
func (c *Client) ListModelDetails(ctx context.Context) ([]ModelInfo, error) {
	const op = "list_model_details"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}

	start := time.Now()
	models, err := c.fetchTags(ctx, op)
	c.observe(op, "", start, err)
	return models, err
}

// ShowModel returns the server's detailed description of one model,
// including its modelfile, template and parameter settings.
func (c *Client) ShowModel(ctx context.Context, model string) (*ShowResponse, error) {
	const op = "show_model"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if model == "" {
		return nil, &ValidationError{Field: "model", Message: "model name must not be empty"}
	}

	start := time.Now()
	var body ShowResponse
	err := c.doJSON(ctx, op, model, http.MethodPost, "/api/show", &modelRequest{Model: model}, &body)
	c.observe(op, model, start, err)
	if err != nil {
		return nil, err
	}
	return &body, nil
}

// DeleteModel removes a model from the server. Deleting a model that does
// not exist fails with ModelNotFoundError.
func (c *Client) DeleteModel(ctx context.Context, model string) error {
	const op = "delete_model"
	if err := c.ensureReady(op); err != nil {
		return err
	}
	if model == "" {
		return &ValidationError{Field: "model", Message: "model name must not be empty"}
	}

	start := time.Now()
	err := c.doJSON(ctx, op, model, http.MethodDelete, "/api/delete", &modelRequest{Model: model}, nil)
	c.observe(op, model, start, err)
	return err
}

// ListRunning reports the models currently loaded in server memory along
// with their resource usage and expiry.
func (c *Client) ListRunning(ctx context.Context) ([]RunningModel, error) {
	const op = "list_running"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}

	start := time.Now()
	var body psResponse
	err := c.doJSON(ctx, op, "", http.MethodGet, "/api/ps", nil, &body)
	c.observe(op, "", start, err)
	if err != nil {
		return nil, err
	}
	return body.Models, nil
}

// PullModel downloads a model to the server, reporting progress over the
// returned channel. Download status lines arrive as they happen; a failure
// mid-pull is delivered as a final progress entry with Err set. The channel
// is closed when the pull finishes either way.
func (c *Client) PullModel(ctx context.Context, model string) (<-chan *PullProgress, error) {
	const op = "pull_model"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if model == "" {
		return nil, &ValidationError{Field: "model", Message: "model name must not be empty"}
	}

	rctx, release := c.requestContext(ctx)

	start := time.Now()
	payload := map[string]any{"model": model, "stream": true}
	resp, err := c.do(rctx, op, model, http.MethodPost, "/api/pull", payload)
	if err != nil {
		release()
		c.observe(op, model, start, err)
		return nil, err
	}

	ch := make(chan *PullProgress, streamChunkBuffer)
	go c.pumpPull(rctx, release, resp.Body, ch, op, model, start)
	return ch, nil
}

func (c *Client) pumpPull(ctx context.Context, release context.CancelFunc, body io.ReadCloser, ch chan<- *PullProgress, op, model string, start time.Time) {
	defer func() {
		close(ch)
		body.Close()
		release()
	}()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64<<10), maxStreamLine)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var progress PullProgress
		if err := json.Unmarshal(line, &progress); err != nil {
			c.log.Warn("skipping malformed pull line", "op", op, "model", model, "error", err)
			continue
		}

		select {
		case ch <- &progress:
		case <-ctx.Done():
			c.observe(op, model, start, ctx.Err())
			return
		}

		if progress.Status == "success" {
			c.observe(op, model, start, nil)
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	streamErr := &StreamError{Op: op, Cause: err}
	select {
	case ch <- &PullProgress{Err: streamErr}:
	case <-ctx.Done():
	}
	c.observe(op, model, start, streamErr)
}
