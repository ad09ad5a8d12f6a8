package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds tests that poll the fake platform. Unit tests
// against in-memory fakes finish in milliseconds; anything near this
// limit is hung.
const DefaultTimeout = 5 * time.Second

// deadlineGrace is withheld from the test binary's own deadline so a
// context expiry still leaves room for cleanup and failure output.
const deadlineGrace = time.Second

// Context returns a context cancelled with the test. A non-positive
// timeout means DefaultTimeout; either way the timeout is clamped to
// the test binary's remaining deadline.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if td, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := td.Deadline(); ok {
			if remaining := time.Until(deadline) - deadlineGrace; remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
