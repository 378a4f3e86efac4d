package swcclient

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is exponential backoff with jitter, bounded by a total
// elapsed time. Each wait is InitialInterval*Multiplier^n, capped at
// MaxInterval, then spread by +/- RandomizationFactor.
type RetryPolicy struct {
	InitialInterval     time.Duration
	Multiplier          float64
	MaxInterval         time.Duration
	RandomizationFactor float64
	MaxElapsedTime      time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(err error, wait time.Duration)
}

// DefaultRetryPolicy returns the policy used when Backoff is enabled.
func DefaultRetryPolicy(maxElapsed time.Duration) RetryPolicy {
	return RetryPolicy{
		InitialInterval:     500 * time.Millisecond,
		Multiplier:          2,
		MaxInterval:         10 * time.Second,
		RandomizationFactor: 0.5,
		MaxElapsedTime:      maxElapsed,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.MaxInterval = p.MaxInterval
	b.RandomizationFactor = p.RandomizationFactor
	b.MaxElapsedTime = p.MaxElapsedTime
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// Do runs op until it succeeds, returns a permanent error, or the elapsed
// time bound is reached. On exhaustion the last error from op is returned.
// Wrap an error with Permanent to stop retrying immediately.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = backoff.Notify(p.OnRetry)
	}
	return backoff.RetryNotify(op, p.backOff(ctx), notify)
}

// Permanent marks err as not retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// unwrapPermanent strips the Permanent marker for callers that run op once.
func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
