package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Chat sends a multi-turn conversation and waits for the complete reply.
// params may be nil; unset fields are omitted from the request so the
// server's own defaults apply.
func (c *Client) Chat(ctx context.Context, model string, messages []ChatMessage, params *Parameters) (*Response, error) {
	const op = "chat"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if err := validateChat(model, messages); err != nil {
		return nil, err
	}

	req := &chatRequest{
		Model:     model,
		Messages:  toWireMessages(messages),
		Stream:    false,
		KeepAlive: c.cfg.KeepAlive,
		Options:   params.options(),
	}

	start := time.Now()
	var body completionBody
	err := c.doJSON(ctx, op, model, http.MethodPost, "/api/chat", req, &body)
	c.observe(op, model, start, err)
	if err != nil {
		return nil, err
	}

	resp := body.toResponse(true)
	c.recordUsage(model, body.usage())
	return resp, nil
}

// StreamChat sends a multi-turn conversation and returns a channel of
// incremental chunks. The final chunk carries Final=true with the server's
// timing metadata, or Err set if the stream failed; the channel is closed
// afterwards. Cancelling ctx or closing the client terminates the stream.
func (c *Client) StreamChat(ctx context.Context, model string, messages []ChatMessage, params *Parameters) (<-chan *StreamChunk, error) {
	const op = "stream_chat"
	if err := c.ensureReady(op); err != nil {
		return nil, err
	}
	if err := validateChat(model, messages); err != nil {
		return nil, err
	}

	req := &chatRequest{
		Model:     model,
		Messages:  toWireMessages(messages),
		Stream:    true,
		KeepAlive: c.cfg.KeepAlive,
		Options:   params.options(),
	}

	return c.stream(ctx, op, model, "/api/chat", req, streamChat)
}

// validateChat rejects obviously unusable input before any network work.
func validateChat(model string, messages []ChatMessage) error {
	if model == "" {
		return &ValidationError{Field: "model", Message: "model name must not be empty"}
	}
	if len(messages) == 0 {
		return &ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		default:
			return &ValidationError{Field: "messages", Message: fmt.Sprintf("unknown role %q at index %d", m.Role, i)}
		}
	}
	return nil
}
