package ollama

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryOptions controls the exponential backoff schedule used by Retry.
type RetryOptions struct {
	// MaxRetries is the number of attempts after the first; zero means a
	// single attempt with no retry.
	MaxRetries int

	// BaseDelay seeds the backoff; attempt n sleeps BaseDelay * 2^n.
	BaseDelay time.Duration

	// MaxDelay caps the backoff growth. Zero means no cap.
	MaxDelay time.Duration

	// Retryable overrides the default transient-error predicate. Nil means
	// Retryable.
	Retryable func(error) bool
}

// RetryOptionsFromConfig builds a schedule from the configured retry
// settings with a 30 second ceiling.
func RetryOptionsFromConfig(maxRetries int, baseDelay time.Duration) RetryOptions {
	return RetryOptions{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		MaxDelay:   30 * time.Second,
	}
}

// Retryable reports whether an error is worth retrying. Connection
// failures, stream failures and server 5xx responses are transient; client
// mistakes, missing models and malformed payloads are not.
func Retryable(err error) bool {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	var streamErr *StreamError
	if errors.As(err, &streamErr) {
		return true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode >= 500
	}
	return false
}

// Retry runs fn with exponential backoff until it succeeds, returns a
// non-retryable error, exhausts the schedule, or ctx is cancelled. It is
// deliberately not wired into the client's own calls: retrying a streaming
// exchange mid-consumption would replay content, so callers opt in at the
// granularity that suits them.
func Retry(ctx context.Context, opts RetryOptions, fn func(context.Context) error) error {
	retryable := opts.Retryable
	if retryable == nil {
		retryable = Retryable
	}

	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(opts, attempt-1)
			slog.Debug("retrying after backoff", "attempt", attempt, "delay", delay, "error", lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func backoff(opts RetryOptions, exponent int) time.Duration {
	if exponent > 30 {
		exponent = 30
	}
	delay := opts.BaseDelay << exponent
	if opts.MaxDelay > 0 && (delay > opts.MaxDelay || delay <= 0) {
		delay = opts.MaxDelay
	}
	return delay
}
