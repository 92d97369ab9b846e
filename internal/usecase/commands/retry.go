package commands

import (
	"context"
	"log/slog"
	"time"

	"villa-reservation/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds gateway retries. Only errors marked retryable are retried; the same
// idempotency key is reused by the caller's closure on every attempt.
type RetryPolicy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Initial: 200 * time.Millisecond, Max: 2 * time.Second}
}

func withRetry[T any](ctx context.Context, p RetryPolicy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Initial
	eb.MaxInterval = p.Max
	eb.RandomizationFactor = 0.2
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	var result T
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		out, err := fn(ctx)
		if err == nil {
			result = out
			return nil
		}
		if !errs.Retryable(err) {
			return backoff.Permanent(err)
		}
		slog.Warn("gateway call failed, retrying", "op", op, "attempt", attempt, "error", err.Error())
		return err
	}, b)
	if err != nil {
		var zero T
		if ctx.Err() != nil && !errs.Is(err, errs.ErrGatewayUnavailable) {
			err = errs.Mark(errs.Wrapf(err, "%s interrupted", op), errs.ErrGatewayUnavailable)
		}
		return zero, err
	}
	return result, nil
}
