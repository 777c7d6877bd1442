package ollama

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"oxbow-hq/ganymede/pkg/config"
	"oxbow-hq/ganymede/pkg/telemetry/metrics"
)

// Connection pool settings for the shared transport.
const (
	maxIdleConns        = 10
	maxIdleConnsPerHost = 5
	idleConnTimeout     = 90 * time.Second

	// errorBodyLimit caps how much of an error response body is carried in
	// a ServerError.
	errorBodyLimit = 4 << 10
)

type clientState int

const (
	stateUninitialized clientState = iota
	stateReady
	stateClosed
)

// Client is the single point of contact with an Ollama-compatible model
// server. It owns a pooled HTTP connection and translates provider-agnostic
// request types to and from the server's JSON wire format.
//
// A Client starts uninitialized; Initialize performs a liveness probe and
// moves it to ready. Close releases the connection and is terminal: a
// closed Client cannot be re-initialized, construct a fresh one instead.
// All methods are safe for concurrent use; independent calls share the
// pooled connection but are not ordered relative to each other.
type Client struct {
	cfg       *config.Config
	http      *http.Client
	collector *metrics.Collector
	log       *slog.Logger

	// closeCtx is cancelled by Close so that in-flight streaming reads
	// observe a terminal error instead of hanging.
	closeCtx context.Context
	closeFn  context.CancelFunc

	mu                  sync.RWMutex
	state               clientState
	available           bool
	consecutiveFailures int
	lastProbe           time.Time
	lastErr             error
}

// New constructs a Client from a validated configuration. collector may be
// nil to disable metrics. The client is not yet connected; call Initialize
// before issuing requests.
func New(cfg *config.Config, collector *metrics.Collector) *Client {
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	closeCtx, closeFn := context.WithCancel(context.Background())

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		collector: collector,
		log:       slog.Default().With("component", "ollama"),
		closeCtx:  closeCtx,
		closeFn:   closeFn,
	}
}

// Initialize opens the connection and probes the server with a model-list
// call. On success the client becomes ready and Available reports true. On
// failure the client stays uninitialized, any idle connections are
// released, and the probe error is returned; probing again later is fine.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return &ConnectionError{Op: "initialize", Message: "client is closed"}
	}
	if c.state == stateReady {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if _, err := c.fetchTags(ctx, "initialize"); err != nil {
		c.setAvailable(false, err)
		c.http.CloseIdleConnections()
		c.log.Error("initialization failed", "base_url", c.cfg.BaseURL, "error", err)
		return err
	}

	c.mu.Lock()
	c.state = stateReady
	c.mu.Unlock()
	c.setAvailable(true, nil)

	c.log.Info("provider initialized", "base_url", c.cfg.BaseURL)
	return nil
}

// Available reports whether the client is initialized and the last probe or
// request succeeded.
func (c *Client) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// Close releases the pooled connection and cancels any in-flight streaming
// reads. It is idempotent; after Close every operation fails with a
// ConnectionError.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = stateClosed
	c.available = false
	c.mu.Unlock()

	c.closeFn()
	c.http.CloseIdleConnections()

	if c.collector != nil {
		c.collector.SetAvailability(false)
	}

	c.log.Info("provider closed", "base_url", c.cfg.BaseURL)
	return nil
}

// ensureReady gates every operation on the client lifecycle.
func (c *Client) ensureReady(op string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state {
	case stateReady:
		return nil
	case stateClosed:
		return &ConnectionError{Op: op, Message: "client is closed"}
	default:
		return &ConnectionError{Op: op, Message: "client not initialized"}
	}
}

func (c *Client) setAvailable(ok bool, err error) {
	c.mu.Lock()
	c.available = ok
	c.lastProbe = time.Now()
	if ok {
		c.consecutiveFailures = 0
		c.lastErr = nil
	} else {
		c.consecutiveFailures++
		c.lastErr = err
	}
	c.mu.Unlock()

	if c.collector != nil {
		c.collector.SetAvailability(ok)
	}
}

// requestContext derives a per-call context that is additionally cancelled
// when the client closes, so closing the client tears down in-flight work.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.closeCtx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

// do performs one HTTP exchange. Transport failures come back as
// ConnectionError; non-2xx statuses as ServerError (or ModelNotFoundError
// for a 404 on a model-addressed operation). On success the caller owns the
// response body.
func (c *Client) do(ctx context.Context, op, model, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ollama: %s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ollama: %s: failed to create request: %w", op, err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.cfg.CustomHeaders {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.log.Debug("sending request",
		"op", op,
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: op, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound && model != "" {
			return nil, &ModelNotFoundError{Model: model}
		}
		return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	return resp, nil
}

// doJSON performs a buffered JSON exchange and decodes the response into
// out. A malformed body surfaces as ParseError; there is no salvageable
// partial result in the buffered case.
func (c *Client) doJSON(ctx context.Context, op, model, method, path string, payload, out any) error {
	rctx, release := c.requestContext(ctx)
	defer release()

	resp, err := c.do(rctx, op, model, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Op: op, Cause: err}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &ParseError{Op: op, Cause: err}
		}
	}

	return nil
}

// observe records the outcome of one operation in logs and metrics.
func (c *Client) observe(op, model string, start time.Time, err error) {
	elapsed := time.Since(start)

	if err != nil {
		c.log.Warn("request failed", "op", op, "model", model, "duration", elapsed, "error", err)
	} else {
		c.log.Debug("request succeeded", "op", op, "model", model, "duration", elapsed)
	}

	if c.collector == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		c.collector.RecordError(op, errorKind(err))
	}
	c.collector.RecordRequest(op, model, status, elapsed)
}

// errorKind classifies an error for metric labels.
func errorKind(err error) string {
	var (
		connErr     *ConnectionError
		serverErr   *ServerError
		notFound    *ModelNotFoundError
		parseErr    *ParseError
		protoErr    *ProtocolError
		validateErr *ValidationError
		streamErr   *StreamError
	)
	switch {
	case errors.As(err, &connErr):
		return "connection"
	case errors.As(err, &serverErr):
		return "server"
	case errors.As(err, &notFound):
		return "model_not_found"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &protoErr):
		return "protocol"
	case errors.As(err, &validateErr):
		return "validation"
	case errors.As(err, &streamErr):
		return "stream"
	default:
		return "other"
	}
}
