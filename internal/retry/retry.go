// Package retry runs operations with backoff between failed attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines the backoff algorithm
type BackoffStrategy int

const (
	BackoffExponential BackoffStrategy = iota
	BackoffLinear
	BackoffFixed
)

// Config holds configuration for retry behavior
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	Backoff     BackoffStrategy
	// Retryable decides whether an error is worth another attempt.
	// IsRetryable is used when nil.
	Retryable func(error) bool
}

// DefaultConfig provides sensible defaults for retry behavior
var DefaultConfig = Config{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	MaxDelay:    30 * time.Second,
	Jitter:      true,
	Backoff:     BackoffExponential,
}

// Exponential returns an exponential backoff config with jitter
func Exponential(maxAttempts int, baseDelay time.Duration) Config {
	return Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    30 * time.Second,
		Jitter:      true,
		Backoff:     BackoffExponential,
	}
}

// Func is an operation that can be retried
type Func func(attempt int) error

// Error is returned once every attempt failed with a retryable error
type Error struct {
	Err      error
	Attempts int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("retryable error after %d attempts", e.Attempts)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable is implemented by errors that know whether a retry may help
type Retryable interface {
	Retryable() bool
}

// IsRetryable reports whether some error in the chain declares itself retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// Do executes fn until it succeeds, returns a non-retryable error, runs out
// of attempts or ctx is done.
func Do(ctx context.Context, config Config, fn Func) error {
	retryable := config.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}

		// Don't wait after the last attempt
		if attempt >= attempts {
			break
		}

		delay := calculateDelay(config, attempt)
		if config.Jitter {
			delay = applyJitter(delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return &Error{
		Err:      lastErr,
		Attempts: attempts,
	}
}

// calculateDelay computes the delay between retry attempts
func calculateDelay(config Config, attempt int) time.Duration {
	var delay time.Duration

	switch config.Backoff {
	case BackoffExponential:
		// baseDelay * 2^(attempt-1)
		delay = config.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	case BackoffLinear:
		delay = config.BaseDelay * time.Duration(attempt)
	default:
		delay = config.BaseDelay
	}

	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}

// applyJitter adds ±25% random jitter to the delay
func applyJitter(delay time.Duration) time.Duration {
	jitter := (rand.Float64() - 0.5) * 0.5
	return time.Duration(float64(delay) * (1 + jitter))
}
