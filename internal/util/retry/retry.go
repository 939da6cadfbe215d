// Package retry provides utilities for retrying operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Base is the exponential base in seconds: the delay before retry n
	// is Base^n seconds, so base 2 yields 1s, 2s, 4s.
	Base float64
	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration
	// Jitter adds up to one second of uniform random delay per sleep.
	Jitter bool
	// Retryable classifies errors; false means surface immediately.
	Retryable func(error) bool
	// Sleep performs the backoff wait. Replaced in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes the operation with jittered exponential backoff retry.
// Context cancellation is respected during backoff sleeps.
//
// Errors wrapped with Fatal(), or for which the configured Retryable
// classifier returns false, are not retried. After exhausting MaxAttempts
// the last error is returned to the caller.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts: 3,
		Base:        2,
		MaxDelay:    60 * time.Second,
		Jitter:      true,
		Retryable:   func(error) bool { return true },
		Sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) || !cfg.Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}
		if err := cfg.Sleep(ctx, cfg.delay(attempt)); err != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt+1, err)
		}
	}
	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

func (c *Config) delay(attempt int) time.Duration {
	d := time.Duration(math.Pow(c.Base, float64(attempt)) * float64(time.Second))
	if c.Jitter {
		d += time.Duration(rand.Float64() * float64(time.Second))
	}
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithBase sets the exponential base in seconds.
func WithBase(base float64) Option {
	return func(c *Config) {
		c.Base = base
	}
}

// WithMaxDelay caps the computed backoff delay.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithJitter toggles the uniform random jitter added to each delay.
func WithJitter(enabled bool) Option {
	return func(c *Config) {
		c.Jitter = enabled
	}
}

// WithRetryable installs an error classifier. Errors for which the
// classifier returns false are surfaced immediately without further
// attempts. Fatal-wrapped errors short-circuit regardless.
func WithRetryable(fn func(error) bool) Option {
	return func(c *Config) {
		c.Retryable = fn
	}
}

// WithSleep replaces the backoff sleep function. Tests use this to observe
// the schedule without waiting.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Config) {
		c.Sleep = fn
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
