// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry runs an operation a bounded number of times with a fixed
// pause and an optional environment reset between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultAttempts = 2
	defaultDelay    = 2 * time.Second
)

// Policy bounds a retry loop.
type Policy struct {
	// Attempts is the total number of tries, including the first (default 2).
	Attempts int

	// Delay is the pause after a failed attempt, taken after Reset runs
	// (default 2s).
	Delay time.Duration

	// Reset, when set, restores the environment after a failed attempt that
	// will be retried.
	Reset func(ctx context.Context)

	// OnRetry, when set, is told about each failed attempt that will be
	// retried. attempt is 1-based.
	OnRetry func(attempt int, err error)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a Permanent error, or the policy's
// attempts are exhausted. If the context is cancelled during a pause, Do
// returns ctx.Err(). After the last attempt the final error is returned
// wrapped with the attempt count.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := p.Delay
	if delay <= 0 {
		delay = defaultDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if p.Reset != nil {
			p.Reset(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
