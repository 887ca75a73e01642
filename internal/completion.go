package internal

import (
	"context"
	"fmt"
	"sync"
)

// Completion is resolved once every reaction dirtied in its window has run.
type Completion struct {
	once sync.Once
	done chan struct{}

	// drives the engine's loop while waiting, nil when the host owns it
	drive func(ctx context.Context, stop <-chan struct{}) error
}

func newCompletion(drive func(context.Context, <-chan struct{}) error) *Completion {
	return &Completion{
		done:  make(chan struct{}),
		drive: drive,
	}
}

func resolvedCompletion() *Completion {
	c := newCompletion(nil)
	c.resolve()
	return c
}

func (c *Completion) resolve() {
	c.once.Do(func() { close(c.done) })
}

// Done returns a channel closed when the completion resolves.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the completion resolves or ctx is done. When the engine
// owns its loop, Wait runs the loop's tasks while it waits, so it must be
// called from the goroutine the engine belongs to.
func (c *Completion) Wait(ctx context.Context) error {
	for !c.Resolved() {
		if c.drive == nil {
			select {
			case <-c.done:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("velo: wait for clean state: %w", ctx.Err())
			}
		}

		if err := c.drive(ctx, c.done); err != nil {
			return fmt.Errorf("velo: wait for clean state: %w", err)
		}
	}

	return nil
}
