package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// streamChunkBuffer smooths producer/consumer bursts without letting
	// the pump run far ahead of a slow consumer.
	streamChunkBuffer = 16

	// maxStreamLine bounds a single newline-delimited JSON message.
	maxStreamLine = 1 << 20
)

type streamKind int

const (
	streamChat streamKind = iota
	streamGenerate
)

// stream issues a streaming POST and hands the response body to a pump
// goroutine that decodes newline-delimited JSON into chunks. The returned
// channel is closed after the final chunk or a terminal error; consuming it
// to completion releases the connection.
func (c *Client) stream(ctx context.Context, op, model, path string, payload any, kind streamKind) (<-chan *StreamChunk, error) {
	rctx, release := c.requestContext(ctx)

	start := time.Now()
	resp, err := c.do(rctx, op, model, http.MethodPost, path, payload)
	if err != nil {
		release()
		c.observe(op, model, start, err)
		return nil, err
	}

	ch := make(chan *StreamChunk, streamChunkBuffer)
	go c.pump(rctx, release, resp.Body, ch, op, model, kind, start)
	return ch, nil
}

// pump reads one JSON message per line until the server marks the exchange
// done. Malformed lines are logged and skipped so a single bad message does
// not abort an otherwise healthy stream; transport failures and truncated
// streams surface as a final chunk with Err set.
func (c *Client) pump(ctx context.Context, release context.CancelFunc, body io.ReadCloser, ch chan<- *StreamChunk, op, model string, kind streamKind, start time.Time) {
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

		var msg completionBody
		if err := json.Unmarshal(line, &msg); err != nil {
			c.log.Warn("skipping malformed stream line", "op", op, "model", model, "error", err)
			continue
		}

		content := msg.Response
		if kind == streamChat {
			content = msg.Message.Content
		}

		if msg.Done {
			final := &StreamChunk{
				Content:  content,
				Final:    true,
				Metadata: msg.metadata(kind == streamGenerate),
			}
			c.emit(ctx, ch, final)
			c.recordUsage(model, msg.usage())
			c.observe(op, model, start, nil)
			return
		}

		if !c.emit(ctx, ch, &StreamChunk{Content: content}) {
			c.observe(op, model, start, ctx.Err())
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	streamErr := &StreamError{Op: op, Cause: fmt.Errorf("stream ended before completion: %w", err)}
	// The request context is already cancelled when the client is closed
	// mid-stream, so deliver the terminal chunk without blocking on it; the
	// buffered channel has room unless the consumer walked away.
	select {
	case ch <- &StreamChunk{Final: true, Err: streamErr}:
	default:
	}
	c.observe(op, model, start, streamErr)
}

// emit delivers a chunk unless the request context has been cancelled,
// which covers both caller cancellation and client close.
func (c *Client) emit(ctx context.Context, ch chan<- *StreamChunk, chunk *StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) recordUsage(model string, usage *TokenUsage) {
	if c.collector == nil || usage == nil {
		return
	}
	c.collector.RecordTokens(model, usage.PromptTokens, usage.CompletionTokens)
}
