package ollama

import "fmt"

// ConnectionError reports that the server could not be reached, or that an
// operation was invoked on a client that is not ready (never initialized or
// already closed). Transient instances may be retried via the Retry helper.
type ConnectionError struct {
	// Op names the operation that failed ("chat", "list models", ...).
	Op string

	// Message describes the failure when there is no underlying error.
	Message string

	// Cause is the underlying transport error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ollama: %s: connection error: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("ollama: %s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ServerError reports a non-2xx HTTP response from the server. It carries
// the status code and a snippet of the response body.
type ServerError struct {
	// Op names the operation that failed.
	Op string

	// StatusCode is the HTTP status returned by the server.
	StatusCode int

	// Body is the (possibly truncated) response body.
	Body string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("ollama: %s: server returned HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// ModelNotFoundError reports that a requested model is absent from the
// server's catalog. Retrying does not help; the model must be pulled first.
type ModelNotFoundError struct {
	// Model is the requested model name.
	Model string
}

// Error implements the error interface.
func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("ollama: model %q not found", e.Model)
}

// ParseError reports a malformed non-streaming response body. It indicates
// a protocol mismatch and is never retried.
type ParseError struct {
	// Op names the operation whose response failed to parse.
	Op string

	// Cause is the underlying decode error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("ollama: %s: failed to parse response: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ProtocolError reports a structurally valid response that violates the
// protocol contract, such as an embeddings count that does not match the
// input count. It is a correctness fault, surfaced immediately.
type ProtocolError struct {
	// Op names the operation.
	Op string

	// Message describes the violated expectation.
	Message string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ollama: %s: protocol error: %s", e.Op, e.Message)
}

// ValidationError reports invalid request input, raised before any network
// call with zero side effects.
type ValidationError struct {
	// Field is the name of the invalid input.
	Field string

	// Message describes what is invalid.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("ollama: invalid %s: %s", e.Field, e.Message)
}

// StreamError reports a transport failure in the middle of a streaming
// response. Unlike malformed individual lines, which are skipped, a
// transport failure terminates the stream.
type StreamError struct {
	// Op names the streaming operation.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("ollama: %s: stream error: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *StreamError) Unwrap() error {
	return e.Cause
}
