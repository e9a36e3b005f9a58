package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestRetrier(delays *[]time.Duration) *Retrier {
	r := NewRetrier()
	r.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return r
}

func TestRetrierExhaustsBudgetOnRateLimit(t *testing.T) {
	var delays []time.Duration
	r := newTestRetrier(&delays)

	calls := 0
	err := r.Execute(context.Background(), func() error {
		calls++
		return &RateLimitedError{}
	})

	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if calls != defaultMaxRetries+1 {
		t.Fatalf("expected %d calls (1 + %d retries), got %d", defaultMaxRetries+1, defaultMaxRetries, calls)
	}

	// Capped exponential: 30s, 60s, 60s.
	want := []time.Duration{30 * time.Second, 60 * time.Second, 60 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), delays)
	}
	var total time.Duration
	for i, d := range delays {
		if d != want[i] {
			t.Fatalf("delay %d = %s, want %s", i, d, want[i])
		}
		total += d
	}
	if total != 150*time.Second {
		t.Fatalf("total delay = %s, want 150s", total)
	}
}

func TestRetrierPropagatesOtherErrors(t *testing.T) {
	var delays []time.Duration
	r := newTestRetrier(&delays)

	boom := errors.New("schema validation failed")
	calls := 0
	err := r.Execute(context.Background(), func() error {
		calls++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retry for non-rate-limit errors, got %d calls", calls)
	}
	if len(delays) != 0 {
		t.Fatalf("expected no sleeps, got %v", delays)
	}
}

func TestRetrierSucceedsMidway(t *testing.T) {
	var delays []time.Duration
	r := newTestRetrier(&delays)

	calls := 0
	err := r.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RateLimitedError{}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetrierStopsOnCancelledContext(t *testing.T) {
	r := NewRetrier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Execute(ctx, func() error {
		return &RateLimitedError{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(&RateLimitedError{RetryAfter: time.Second}) {
		t.Fatalf("expected RateLimitedError to classify as rate limited")
	}
	if IsRateLimited(errors.New("plain error")) {
		t.Fatalf("expected plain error not to classify as rate limited")
	}
}
