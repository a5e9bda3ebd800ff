package openai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/carriersync/internal/logger"
)

// maxRetryAfter caps the wait honoured from a Retry-After header.
const maxRetryAfter = time.Minute

// errRetryable marks a failed attempt worth repeating.
type errRetryable struct {
	err   error
	after time.Duration
}

func (e *errRetryable) Error() string { return e.err.Error() }
func (e *errRetryable) Unwrap() error { return e.err }

// withRetry runs op until it succeeds, fails with a non-retryable error or
// maxAttempts is reached. The delay doubles after every attempt unless the
// server asked for a specific wait.
func withRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		var retry *errRetryable
		if !errors.As(lastErr, &retry) {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		wait := delay
		if retry.after > 0 {
			wait = retry.after
		}
		logger.Debug("openai: attempt %d/%d failed, retrying in %s: %v", attempt, maxAttempts, wait, retry.err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	var retry *errRetryable
	if errors.As(lastErr, &retry) {
		return retry.err
	}
	return lastErr
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}
