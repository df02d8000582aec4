// Package retry implements a bounded exponential-backoff retry loop used by
// the background reconciliation worker.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Done signals that the policy permits no further attempts.
const Done time.Duration = -1

// Operation is the unit of work to execute with retries.
type Operation func() error

// IsRetriable decides whether an error from the operation warrants another
// attempt.
type IsRetriable func(error) bool

// Policy yields the delay before each subsequent attempt. A Policy instance
// tracks attempt state and must not be reused across runs.
type Policy struct {
	initialInterval    time.Duration
	backoffCoefficient float64
	maximumInterval    time.Duration
	maximumAttempts    int

	currentAttempt int
}

// Option configures a Policy.
type Option func(*Policy)

func WithInitialInterval(d time.Duration) Option {
	return func(p *Policy) { p.initialInterval = d }
}

func WithBackoffCoefficient(c float64) Option {
	return func(p *Policy) { p.backoffCoefficient = c }
}

func WithMaximumInterval(d time.Duration) Option {
	return func(p *Policy) { p.maximumInterval = d }
}

func WithMaximumAttempts(n int) Option {
	return func(p *Policy) { p.maximumAttempts = n }
}

// NewPolicy builds a Policy; defaults give 500ms initial delay doubling up to
// 10s with at most 3 total attempts.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		initialInterval:    500 * time.Millisecond,
		backoffCoefficient: 2.0,
		maximumInterval:    10 * time.Second,
		maximumAttempts:    3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CalculateNextDelay returns the delay before the next attempt, or Done when
// the attempt budget is exhausted. The returned delay carries up to 20%
// downward jitter.
func (p *Policy) CalculateNextDelay() time.Duration {
	p.currentAttempt++
	if p.currentAttempt >= p.maximumAttempts {
		return Done
	}

	interval := float64(p.initialInterval)
	for i := 1; i < p.currentAttempt; i++ {
		interval *= p.backoffCoefficient
	}
	if max := float64(p.maximumInterval); interval > max {
		interval = max
	}

	jitter := 1 - 0.2*rand.Float64()
	return time.Duration(interval * jitter)
}

// Attempts reports how many attempts have been consumed so far.
func (p *Policy) Attempts() int {
	return p.currentAttempt
}

// Run executes op, retrying per the policy while isRetriable approves and the
// context is alive. The error of the last attempt is returned on failure.
func Run(ctx context.Context, op Operation, policy *Policy, isRetriable IsRetriable) error {
	for {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetriable(err) {
			return err
		}

		next := policy.CalculateNextDelay()
		if next == Done {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
		}
	}
}
