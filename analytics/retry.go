package analytics

import (
	"context"
	"fmt"
	"time"
)

const (
	retryBaseDelay    = 30 * time.Second
	retryMaxDelay     = time.Minute
	defaultMaxRetries = 3
)

// Retrier re-runs an operation that failed with a rate-limit signal, waiting
// an exponentially growing delay between attempts. Any other error class
// propagates immediately without retry.
type Retrier struct {
	maxRetries int

	// sleep waits for the given duration or until ctx is done. Tests inject
	// a recorder here.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a retrier with the default retry budget.
func NewRetrier() *Retrier {
	return &Retrier{maxRetries: defaultMaxRetries, sleep: sleepContext}
}

// Execute invokes op, retrying up to maxRetries additional times when op
// fails with a rate-limit signal. Exhausting the budget returns an error
// wrapping ErrRetriesExhausted.
func (r *Retrier) Execute(ctx context.Context, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRateLimited(err) {
			return err
		}
		if attempt >= r.maxRetries {
			return fmt.Errorf("%w after %d retries: %v", ErrRetriesExhausted, r.maxRetries, err)
		}

		delay := retryBaseDelay << attempt
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// sleepContext suspends the calling goroutine without spinning; the wait ends
// early if ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
