// SPDX-License-Identifier: MPL-2.0

package publish

import "time"

type (
	// Clock abstracts time for the polling loops so tests can simulate intervals and
	// ceilings without waiting.
	Clock interface {
		// Now returns the current time.
		Now() time.Time

		// After waits for the duration to elapse and then sends the current time.
		After(d time.Duration) <-chan time.Time

		// Since returns the time elapsed since t.
		Since(t time.Time) time.Duration
	}

	// SystemClock implements Clock using actual system time.
	SystemClock struct{}
)

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

// After returns a channel that receives the time after duration d.
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Since returns the time elapsed since t.
func (SystemClock) Since(t time.Time) time.Duration { return time.Since(t) }
