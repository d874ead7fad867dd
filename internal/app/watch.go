package app

import (
	"context"
	"fmt"
	"time"

	"github.com/corey/atlaspack/internal/ports"
)

// DefaultQuiet is how long the source tree must stay unchanged before a
// watch rebuild starts.
const DefaultQuiet = 250 * time.Millisecond

// Watch runs a full build, then rebuilds every time a burst of changes
// under src settles for quiet. Build failures are reported and watching
// continues. Returns when ctx is done.
func (b *Builder) Watch(ctx context.Context, w ports.Watcher, src, out string, quiet time.Duration) error {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	changes := make(chan string, 1)
	if err := w.Watch(src, func(path string) {
		select {
		case changes <- path:
		default: // a rebuild is already pending
		}
	}); err != nil {
		return fmt.Errorf("%w: watching %s: %v", ErrIO, src, err)
	}
	defer w.Stop()

	b.Run(ctx, src, out)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			if !settle(ctx, changes, quiet) {
				return nil
			}
			b.Reporter.Info(fmt.Sprintf("Change detected (%s), rebuilding", path))
			b.Run(ctx, src, out)
		}
	}
}

// settle waits until no change has arrived for quiet. Returns false if
// ctx ends first.
func settle(ctx context.Context, changes <-chan string, quiet time.Duration) bool {
	timer := time.NewTimer(quiet)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-changes:
			timer.Reset(quiet)
		case <-timer.C:
			return true
		}
	}
}
