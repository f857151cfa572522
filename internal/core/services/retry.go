package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/logger"
)

// RetryPolicy bounds how often and how long an operation is retried.
type RetryPolicy struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int

	// Base is the delay before the second attempt. Later delays double.
	Base time.Duration

	// Max caps any single delay.
	Max time.Duration

	// AttemptTimeout bounds each attempt. Zero leaves attempts unbounded.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns two attempts with a 1s to 5s backoff and a 30s attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       2,
		Base:           time.Second,
		Max:            5 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// RetryPolicyFromSettings builds a policy from application settings.
// The per-attempt timeout follows the LLM request timeout.
func RetryPolicyFromSettings(s *domain.AppSettings) RetryPolicy {
	p := RetryPolicy{
		Attempts:       s.Retry.Attempts,
		Base:           s.Retry.Base,
		Max:            s.Retry.Max,
		AttemptTimeout: s.LLM.Timeout,
	}
	return p.normalised()
}

func (p RetryPolicy) normalised() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Base <= 0 {
		p.Base = def.Base
	}
	if p.Max < p.Base {
		p.Max = p.Base
	}
	return p
}

// backOff returns a fresh exponential schedule without jitter.
func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Base
	b.MaxInterval = p.Max
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.Attempts-1)), ctx)
}

// IsPermanent reports whether retrying err cannot help.
// Rejected credentials and unrecognised result shapes fail the same way every time.
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrCompletionAuth) ||
		errors.Is(err, domain.ErrUnexpectedResponseFormat) ||
		errors.Is(err, domain.ErrLLMUnavailable)
}

// Retry runs op until it succeeds, fails permanently, or the policy is exhausted.
// Each attempt gets its own context bounded by AttemptTimeout. The returned
// error is the last attempt's error, or the context error if ctx ended first.
func Retry[T any](ctx context.Context, policy RetryPolicy, name string, op func(ctx context.Context) (T, error)) (T, error) {
	policy = policy.normalised()
	attempt := 0

	operation := func() (T, error) {
		attempt++
		actx := ctx
		if policy.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
			defer cancel()
		}

		v, err := op(actx)
		if err != nil && IsPermanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("%s attempt %d/%d failed: %v (retrying in %s)", name, attempt, policy.Attempts, err, next)
	}

	return backoff.RetryNotifyWithData(operation, policy.backOff(ctx), notify)
}
