// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultPollInterval is the wait between two status checks.
	DefaultPollInterval = time.Second
	// DefaultAuthTimeout is the ceiling for the authorization loop.
	DefaultAuthTimeout = 300 * time.Second
	// DefaultJobTimeout is the ceiling for the publish job loop.
	DefaultJobTimeout = 600 * time.Second
)

// errCeilingReached is returned by poll when the elapsed time exceeds the ceiling.
var errCeilingReached = errors.New("polling ceiling reached")

// poll calls check until it reports done or fails, waiting interval between calls.
// The ceiling is checked right after every wait, never during one, so a check already
// in flight always completes. Elapsed time is measured from the first check.
func poll(ctx context.Context, clock Clock, interval, ceiling time.Duration, check func(context.Context) (bool, error)) error {
	start := clock.Now()
	schedule := backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)

	for {
		done, err := check(ctx)
		if err != nil || done {
			return err
		}

		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(wait):
		}

		if clock.Since(start) > ceiling {
			return errCeilingReached
		}
	}
}
