// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"time"
)

// maxBackoff caps a single wait between attempts.
const maxBackoff = 5 * time.Minute

// Backoff returns the wait before attempt (1-based retries; attempt 0 never
// waits): base, 2*base, 4*base, ... capped at five minutes.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	d := base
	for range attempt - 1 {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return min(d, maxBackoff)
}

// RetryWithBackoff retries op up to maxAttempts times with exponential backoff.
// Waits go through clock and are cut short by ctx cancellation.
//
// op returns (shouldRetry bool, err error). If shouldRetry is false, err is
// returned immediately (nil on success, non-nil on permanent failure).
// On retry exhaustion, the last error is returned.
func RetryWithBackoff(
	ctx context.Context,
	clock Clock,
	maxAttempts int,
	baseBackoff time.Duration,
	op func(attempt int) (retry bool, err error),
) error {
	var lastErr error
	for attempt := range max(maxAttempts, 1) {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("retry aborted: %w", err)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-clock.After(Backoff(baseBackoff, attempt)):
			}
		}

		retry, err := op(attempt)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return lastErr
}
