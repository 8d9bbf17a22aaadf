// Package retry runs operations with exponential backoff: database connects at
// startup and waits on another replica's in-flight work.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// ErrPending is returned by polled operations whose result is not ready yet.
var ErrPending = errors.New("retry: result pending")

// Config describes a backoff schedule and which failures are worth another attempt.
type Config struct {
	// MaxAttempts counts the first call.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryableErrors are case-insensitive substrings of retryable error
	// messages. Empty means every error is retryable.
	RetryableErrors []string
	// RetryIf overrides RetryableErrors when set.
	RetryIf func(error) bool
}

// DefaultConfig is five attempts starting at one second, doubling up to 30s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
	}
}

// PostgresConfig is DefaultConfig limited to transient connection failures.
func PostgresConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryableErrors = DefaultPostgresRetryableErrors()
	return cfg
}

// DefaultPostgresRetryableErrors lists messages seen while postgres is
// starting, restarting or unreachable.
func DefaultPostgresRetryableErrors() []string {
	return []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"i/o timeout",
		"dial tcp",
		"network is unreachable",
		"no connection could be made",
		"server closed the connection",
		"too many connections",
		"the database system is starting up",
		"the database system is shutting down",
	}
}

// PollConfig returns a short, flat backoff suited for waiting on a
// concurrent writer for about the given duration.
func PollConfig(wait time.Duration) Config {
	const interval = 50 * time.Millisecond
	return Config{
		MaxAttempts:  int(wait/interval) + 1,
		InitialDelay: interval,
		MaxDelay:     4 * interval,
		Multiplier:   1.5,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Poll calls fn until it stops returning ErrPending, the attempts run out or
// ctx is done. Any other error ends polling immediately.
func Poll[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	cfg.RetryIf = func(err error) bool { return errors.Is(err, ErrPending) }
	return DoWithResult(ctx, cfg, fn)
}

// DoWithResult is Do for operations that produce a value. The last error is
// returned once attempts are exhausted.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts <= 0 {
		return zero, fmt.Errorf("retry: MaxAttempts must be positive, got %d", cfg.MaxAttempts)
	}

	var err error
	for attempt := 0; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryableError(err, cfg) || attempt+1 >= cfg.MaxAttempts {
			return zero, err
		}

		if waitErr := sleep(ctx, jitter(cfg.backoff(attempt))); waitErr != nil {
			return zero, waitErr
		}
	}
}

// IsRetryableError reports whether err deserves another attempt under cfg.
func IsRetryableError(err error, cfg Config) bool {
	switch {
	case err == nil:
		return false
	case cfg.RetryIf != nil:
		return cfg.RetryIf(err)
	case len(cfg.RetryableErrors) == 0:
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// backoff is InitialDelay * Multiplier^attempt, capped at MaxDelay.
func (c Config) backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	return time.Duration(d)
}

// jitter spreads d by up to 10% either way.
func jitter(d time.Duration) time.Duration {
	//nolint:gosec // jitter needs no cryptographic randomness
	spread := float64(d) * 0.1 * (rand.Float64()*2 - 1)
	return d + time.Duration(spread)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
