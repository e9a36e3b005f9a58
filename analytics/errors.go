package analytics

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
)

var (
	// ErrRetriesExhausted is returned when the backoff budget for an AI call
	// has been consumed without a successful response.
	ErrRetriesExhausted = errors.New("ai retries exhausted")

	// ErrVisionUnavailable is returned by the shelf-image path when the
	// vision client could not be constructed. There is no statistical
	// fallback for image analysis, so this surfaces to the caller.
	ErrVisionUnavailable = errors.New("vision service unavailable")
)

// RateLimitedError signals that the external model rejected a call for quota
// reasons. It is the only error class the retrier will retry.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by upstream, retry after %s", e.RetryAfter)
	}
	return "rate limited by upstream"
}

// IsRateLimited reports whether err is a quota rejection, either our own
// RateLimitedError or an HTTP 429 from a Google API client.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 429
}
