package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/slogx"
	"github.com/cenkalti/backoff/v4"
)

// Retrier reruns an operation on transient store failures with exponential
// backoff. Domain errors and store lookups that legitimately miss are
// returned straight away.
type Retrier struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetrier retries three times, starting at 25ms.
func DefaultRetrier() Retrier {
	return Retrier{MaxRetries: 3, InitialInterval: 25 * time.Millisecond, MaxInterval: time.Second}
}

// NoRetry runs operations exactly once.
func NoRetry() Retrier { return Retrier{} }

// Do runs fn until it succeeds, fails permanently, or retries run out.
// Exhausted retries come back wrapped in ErrInfrastructure.
func (r Retrier) Do(ctx context.Context, op string, fn func() error) error {
	log := slogx.FromContext(ctx)

	b := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		b.InitialInterval = r.InitialInterval
	}
	if r.MaxInterval > 0 {
		b.MaxInterval = r.MaxInterval
	}
	b.MaxElapsedTime = 0 // bounded by MaxRetries instead

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		log.Warn("retrying operation",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, r.MaxRetries), ctx))

	if err == nil || !retryable(err) {
		return err
	}
	log.Error("operation failed after retries",
		slog.String("op", op),
		slog.Int("attempts", attempt),
		slog.Any("error", err),
	)
	return fmt.Errorf("%w: %s: %w", ErrInfrastructure, op, err)
}

func retryable(err error) bool {
	switch {
	case IsDomainError(err):
		return false
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrAlreadyExists):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
