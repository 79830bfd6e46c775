// Package retry runs remote operations with a bounded retry budget,
// exponential backoff that yields to server rate-limit hints, and latency and
// failure metrics. Exhausted operations surface as apperr.KindUpstream.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/h0rv/linbridge/internal/apperr"
	"github.com/h0rv/linbridge/internal/metrics"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures an Executor.
type Option func(*Executor)

// WithPolicy overrides DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithMetrics sets the collectors the executor records into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(e *Executor) {
		e.sleep = s
	}
}

// WithClock replaces the time source used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// Executor wraps remote operations with retries. It holds no per-call state
// and is safe to share between goroutines.
type Executor struct {
	policy  Policy
	metrics *metrics.Metrics
	sleep   Sleeper
	now     func() time.Time
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		policy: DefaultPolicy(),
		sleep:  sleepContext,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.New(nil)
	}
	return e
}

// Policy returns the executor's retry policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Run executes op under the retry policy. See Do.
func (e *Executor) Run(ctx context.Context, operation string, op func(context.Context) error) error {
	_, err := Do(ctx, e, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Do executes op, retrying transient failures until the policy's budget is
// spent. The whole operation is retried each time.
//
// InvalidParams and NotFound failures are returned unchanged without retry.
// Any other failure that outlives the budget is converted to an
// apperr.KindUpstream error carrying the operation name and last message.
func Do[T any](ctx context.Context, e *Executor, operation string, op func(context.Context) (T, error)) (T, error) {
	var zero T

	logger := slogcontext.FromCtx(ctx).With(
		slog.String("operation", operation),
		slog.String("invocation", uuid.NewString()),
	)

	start := e.now()
	schedule := e.policy.newBackOff()
	attempts := e.policy.Attempts()

	var lastErr error
	attempt := 0
	for attempt < attempts {
		attempt++

		result, err := op(ctx)
		if err == nil {
			elapsed := e.now().Sub(start)
			e.metrics.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
			if attempt > 1 {
				logger.Info("operation succeeded after retry",
					slog.Int("attempt", attempt),
					slog.Duration("elapsed", elapsed))
			}
			return result, nil
		}

		if apperr.IsPermanent(err) {
			logger.Debug("operation failed permanently", slog.String("error", err.Error()))
			return zero, err
		}

		lastErr = err
		retriesLeft := attempts - attempt
		rateLimited := apperr.IsRateLimited(err)

		e.metrics.AttemptFailures.WithLabelValues(operation).Inc()
		if rateLimited {
			e.metrics.RateLimited.WithLabelValues(operation).Inc()
		}
		logger.Warn("operation attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("retriesLeft", retriesLeft),
			slog.Bool("rateLimited", rateLimited),
			slog.String("error", err.Error()))

		if retriesLeft == 0 {
			break
		}

		delay := e.policy.Delay(err, schedule.NextBackOff())
		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}

	e.metrics.OperationFailures.WithLabelValues(operation).Inc()
	logger.Error("operation failed",
		slog.Int("attempts", attempt),
		slog.String("error", lastErr.Error()))

	return zero, apperr.Upstream(operation, lastErr).WithContext("attempts", attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
