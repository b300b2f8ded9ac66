package officepool

import (
	"context"
	"errors"
	"time"
)

// minRetryInterval keeps a non-positive interval from busy-looping.
const minRetryInterval = 10 * time.Millisecond

// errRetryTimeout is returned by retryUntil when attempts run out of time.
var errRetryTimeout = errors.New("retry timeout exceeded")

// retryUntil calls attempt until it reports done or fails, the timeout
// elapses, or ctx ends. A non-positive timeout allows exactly one attempt.
func retryUntil(ctx context.Context, timeout, interval time.Duration, attempt func() (done bool, err error)) error {
	if interval <= 0 {
		interval = minRetryInterval
	}
	deadline := time.Now().Add(timeout)

	for {
		done, err := attempt()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if !time.Now().Before(deadline) {
			return errRetryTimeout
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
