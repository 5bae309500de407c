// Package resilience bounds remote store calls with a per-attempt timeout and
// retries idempotent ones with exponential backoff.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetries    = 2
	DefaultBackoff    = 1000 * time.Millisecond
	DefaultMultiplier = 1.5
)

// Policy describes how a single remote operation is attempted.
type Policy struct {
	// Timeout bounds each attempt. The underlying call's context is cancelled
	// when it fires, and any late result is discarded.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first failure.
	Retries int

	// Backoff is the wait before the first retry; each later wait is
	// multiplied by Multiplier.
	Backoff    time.Duration
	Multiplier float64

	// Idempotent must be true for the operation to be retried at all.
	// Non-idempotent operations get exactly one (timeout-bounded) attempt and
	// any retry is the caller's explicit responsibility.
	Idempotent bool
}

// DefaultPolicy returns the read policy: 10s timeout, 2 retries, 1s initial
// backoff growing by 1.5x, retries enabled.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
		Backoff:    DefaultBackoff,
		Multiplier: DefaultMultiplier,
		Idempotent: true,
	}
}

// NonIdempotent returns a copy of p that never retries.
func (p Policy) NonIdempotent() Policy {
	p.Idempotent = false
	return p
}

func (p Policy) withDefaults() Policy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
	if p.Retries < 0 {
		p.Retries = 0
	}
	if p.Backoff < 0 {
		p.Backoff = 0
	}
	if p.Multiplier < 1 {
		p.Multiplier = DefaultMultiplier
	}
	return p
}

// backoff yields Backoff, Backoff*Multiplier, ... for at most Retries waits.
func (p Policy) backoff() retry.Backoff {
	retries := p.Retries
	if !p.Idempotent {
		retries = 0
	}
	delay := p.Backoff
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		d := delay
		delay = time.Duration(float64(delay) * p.Multiplier)
		return d, false
	})
	return retry.WithMaxRetries(uint64(retries), next)
}

// Call runs op under policy p. Each attempt races op against p.Timeout; on
// failure an idempotent policy waits out the backoff and tries again until the
// retry budget is spent, then the last failure is returned. Errors marked with
// Permanent and cancellation of ctx itself stop the loop immediately.
func Call[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var result T
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		v, err := attempt(ctx, p.Timeout, op)
		if err == nil {
			result = v
			return nil
		}
		if !p.Idempotent || IsPermanent(err) || ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Do is Call for operations without a result value.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Call(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

type outcome[T any] struct {
	value T
	err   error
}

// attempt runs op once and stops waiting for it after timeout.
func attempt[T any](ctx context.Context, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so a late result never blocks the abandoned goroutine.
	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(attemptCtx)
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return out.value, fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, out.err)
		}
		return out.value, out.err
	case <-attemptCtx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}
