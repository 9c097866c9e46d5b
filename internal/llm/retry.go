package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable is returned after transient failures exhaust the retry budget.
// Callers use errors.Is to degrade gracefully instead of failing the request.
var ErrUnavailable = errors.New("llm service unavailable")

// statusError is a non-200 response from the upstream API.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.code, e.body)
}

// transportError wraps a failed round trip (connection refused, timeout, ...).
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("failed to send request: %v", e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}

// retryPolicy retries transient collaborator failures with exponential backoff.
type retryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

var defaultRetryPolicy = retryPolicy{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
}

// do runs fn up to MaxAttempts times. Only transient errors are retried;
// anything else is returned immediately. Once the budget is spent the last
// error is wrapped in ErrUnavailable.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	delay := p.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, attempts, lastErr)
}

// isTransient reports whether an error is worth retrying: network-level
// failures, rate limiting, and upstream 5xx responses.
func isTransient(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return false
}
