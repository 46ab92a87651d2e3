package connector

import (
	"context"
	"fmt"
	"time"
)

// RetryOptions controls connection retry behavior.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Backoff    float64
}

// DefaultRetryOptions returns sensible retry defaults.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Backoff:    2.0,
	}
}

// retryConnect attempts connect up to MaxRetries times with exponential
// backoff between attempts. The context cancels the wait as well as the
// attempts themselves.
func retryConnect(ctx context.Context, opts RetryOptions, connect func(context.Context) (Connection, error)) (Connection, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.Backoff < 1 {
		opts.Backoff = 2.0
	}

	var lastErr error
	delay := opts.BaseDelay

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		conn, err := connect(ctx)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if attempt == opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connection cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * opts.Backoff)
		if opts.MaxDelay > 0 && delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}

	return nil, fmt.Errorf("connection failed after %d attempts: %w", opts.MaxRetries, lastErr)
}
