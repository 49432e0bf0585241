package widget

import (
	"context"
	"time"
)

// WaitReady polls c.Ready every interval until it reports true, the timeout
// elapses, or ctx is canceled. It returns true only when the client became
// ready within the bound.
//
// The first check happens immediately, so an already-ready client never
// waits. A widget that never comes up must resolve to the fallback link,
// not spin forever, hence the hard bound.
func WaitReady(ctx context.Context, c Client, interval, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.Ready(ctx) {
		return true
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			if c.Ready(ctx) {
				return true
			}
		}
	}
}
