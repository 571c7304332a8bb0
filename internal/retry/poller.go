package retry

import (
	"context"
	"errors"
	"time"

	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
)

// ErrExhausted is returned when every attempt reported NotYet. It is distinct
// from a hard observation error so callers can surface a pending state and
// re-poll later instead of resubmitting a transaction.
var ErrExhausted = errors.New("observation not confirmed within retry budget")

// Outcome classifies one observation attempt
type Outcome int

const (
	// Observed the record is visible, stop polling
	Observed Outcome = iota
	// NotYet the record is not visible yet, worth another attempt
	NotYet
)

// ObserveFunc performs one observation. A non-nil error is terminal and is
// propagated immediately without further attempts.
type ObserveFunc[T any] func(ctx context.Context) (T, Outcome, error)

// Poller bounded-retry schedule for observing asynchronous ledger state.
// Sleep is injectable so tests run without real time passing.
type Poller struct {
	InitialDelay time.Duration // wait before the first attempt
	Interval     time.Duration // spacing between attempts
	MaxAttempts  int           // attempts after the initial delay
	Sleep        func(ctx context.Context, d time.Duration) error
}

// New creates a poller with the real clock
func New(initialDelay, interval time.Duration, maxAttempts int) Poller {
	return Poller{
		InitialDelay: initialDelay,
		Interval:     interval,
		MaxAttempts:  maxAttempts,
		Sleep:        sleepCtx,
	}
}

// Poll runs observe under the poller's schedule. It performs no writes, so
// cancelling the context abandons the sequence without side effects.
func Poll[T any](ctx context.Context, p Poller, observe ObserveFunc[T]) (T, error) {
	var zero T

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	if p.InitialDelay > 0 {
		if err := sleep(ctx, p.InitialDelay); err != nil {
			return zero, err
		}
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		value, outcome, err := observe(ctx)
		if err != nil {
			return zero, err
		}
		if outcome == Observed {
			if attempt > 1 {
				logger.Info("Observation confirmed after %d attempts", attempt)
			}
			return value, nil
		}

		if attempt == attempts {
			break
		}
		logger.Debug("Observation not yet visible, attempt %d/%d, retrying in %s",
			attempt, attempts, p.Interval)
		if err := sleep(ctx, p.Interval); err != nil {
			return zero, err
		}
	}

	return zero, ErrExhausted
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
