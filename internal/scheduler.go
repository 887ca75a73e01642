package internal

import (
	"context"
	"slices"
	"sync"
)

// Scheduler defers work to a later turn of a host loop.
type Scheduler interface {
	// Schedule queues task to run after the current synchronous work. The
	// returned cancel func drops the task if it has not run yet and reports
	// whether it did.
	Schedule(task func()) (cancel func() bool)
}

type task struct {
	fn func()
}

// Loop is a cooperative macrotask queue. Any goroutine may schedule tasks;
// they run one at a time, in FIFO order, on the goroutine driving the loop.
type Loop struct {
	mu    sync.Mutex
	tasks []*task

	// signaled when a task is queued
	wake chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make([]*task, 0),
		wake:  make(chan struct{}, 1),
	}
}

func (l *Loop) Schedule(fn func()) (cancel func() bool) {
	t := &task{fn: fn}

	l.mu.Lock()
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()

		index := slices.Index(l.tasks, t)
		if index == -1 {
			return false
		}

		l.tasks = slices.Delete(l.tasks, index, index+1)
		return true
	}
}

// RunOnce runs the oldest queued task, reporting whether there was one.
func (l *Loop) RunOnce() bool {
	l.mu.Lock()
	if len(l.tasks) == 0 {
		l.mu.Unlock()
		return false
	}

	t := l.tasks[0]
	l.tasks = slices.Delete(l.tasks, 0, 1)
	l.mu.Unlock()

	t.fn()
	return true
}

// RunPending runs one turn of the loop: the tasks queued before the call.
// Tasks they schedule wait for the next turn.
func (l *Loop) RunPending() int {
	n := l.Len()

	ran := 0
	for ran < n && l.RunOnce() {
		ran++
	}

	return ran
}

// Step runs one task, waiting for one to be scheduled if the queue is
// empty. It returns early when stop is closed or ctx is done.
func (l *Loop) Step(ctx context.Context, stop <-chan struct{}) error {
	for {
		if l.RunOnce() {
			return nil
		}

		select {
		case <-l.wake:
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.Step(ctx, nil); err != nil {
			return err
		}
	}
}

func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.tasks)
}
