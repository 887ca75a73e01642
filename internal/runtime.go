package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/AnatoleLucet/velo/revision"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Runtime is one reactive engine. It is not safe for concurrent use: every
// call, and every task of its loop, must come from the goroutine that owns it.
type Runtime struct {
	id        uuid.UUID
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	revisions *revision.Tracker

	loop      *Loop // nil when the host provides the scheduler
	scheduler Scheduler

	tracker *Tracker
	batcher *Batcher
	dirty   *DirtySet

	// reaction bodies, indexed by creation order
	reactions []func()

	// completion of the current dirty window
	window *Completion

	autoScheduled bool
	autoGen       uint64
	cancelAuto    func() bool

	flushing bool
}

func NewRuntime(opts ...Option) *Runtime {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	id := uuid.New()

	r := &Runtime{
		id:        id,
		logger:    config.Logger.With("engine_id", id.String()),
		metrics:   config.Metrics,
		tracer:    config.Tracer,
		revisions: config.Revisions,

		scheduler: config.Scheduler,

		tracker: NewTracker(),
		batcher: NewBatcher(),
		dirty:   NewDirtySet(),

		reactions: make([]func(), 0),
		window:    resolvedCompletion(),
	}

	if r.scheduler == nil {
		r.loop = NewLoop()
		r.scheduler = r.loop
	}

	return r
}

func (r *Runtime) ID() uuid.UUID {
	return r.id
}

func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

// Loop returns the loop auto-batch flushes run on, or nil when the engine
// was given a host scheduler.
func (r *Runtime) Loop() *Loop {
	return r.loop
}

func (r *Runtime) Revisions() *revision.Tracker {
	return r.revisions
}

// NewReaction registers fn under the next index and runs it once, recording
// the states it reads while the engine is recording.
func (r *Runtime) NewReaction(fn func()) int {
	index := len(r.reactions)
	r.reactions = append(r.reactions, fn)

	r.tracker.RunWithReaction(index, func() { r.run(index) })

	return index
}

// Reactions returns the number of registered reactions.
func (r *Runtime) Reactions() int {
	return len(r.reactions)
}

// Pending returns the number of reactions waiting for a flush.
func (r *Runtime) Pending() int {
	return r.dirty.Len()
}

func (r *Runtime) Record(fn func()) {
	r.tracker.Record(fn)
}

func (r *Runtime) Recording() bool {
	return r.tracker.Recording()
}

func (r *Runtime) IsBatching() bool {
	return r.batcher.IsBatching()
}

// Batch runs fn with reaction runs deferred, then flushes once the
// outermost batch returns. The flush happens even if fn panics.
func (r *Runtime) Batch(fn func()) {
	r.openWindow()
	r.batcher.Batch(fn, func() { r.flush(FlushBatch) })
}

// Flush runs every dirty reaction now, cancelling a pending auto-batch.
func (r *Runtime) Flush() {
	r.flush(FlushExplicit)
}

// ToBeClean returns the completion of the current dirty window. It is
// already resolved when nothing is pending.
func (r *Runtime) ToBeClean() *Completion {
	return r.window
}

func (r *Runtime) run(index int) {
	defer func() {
		if p := recover(); p != nil {
			r.metrics.reactionPanicked()
			r.logger.Warn("reaction panicked", "reaction", index, "panic", p)
			panic(p)
		}
	}()

	r.metrics.reactionRan()
	r.reactions[index]()
}

func (r *Runtime) rerun(index int) {
	r.tracker.RunUntracked(func() { r.run(index) })
}

// trigger hands a reaction whose dependency changed to the scheduler.
func (r *Runtime) trigger(index int) {
	if r.tracker.Recording() {
		// wiring propagates immediately
		r.dirty.Unmark(index)
		r.rerun(index)
		return
	}

	r.openWindow()
	if !r.batcher.IsBatching() && !r.flushing {
		r.scheduleAutoBatch()
	}

	r.dirty.Mark(index)
}

func (r *Runtime) scheduleAutoBatch() {
	if r.autoScheduled {
		return
	}

	r.autoScheduled = true
	r.autoGen++
	gen := r.autoGen

	cancel := r.scheduler.Schedule(func() {
		// a host scheduler may not cancel, so stale tasks are ignored
		if !r.autoScheduled || r.autoGen != gen {
			return
		}

		r.flush(FlushAuto)
	})

	if r.autoScheduled && r.autoGen == gen {
		r.cancelAuto = cancel
	}

	r.logger.Debug("auto batch scheduled")
}

func (r *Runtime) cancelAutoBatch() {
	if !r.autoScheduled {
		return
	}

	r.autoScheduled = false
	if r.cancelAuto != nil {
		r.cancelAuto()
		r.cancelAuto = nil
	}
}

// openWindow starts a new dirty window unless one is still pending.
func (r *Runtime) openWindow() {
	if !r.window.Resolved() {
		return
	}

	var drive func(context.Context, <-chan struct{}) error
	if r.loop != nil {
		drive = r.loop.Step
	}

	r.window = newCompletion(drive)
	r.metrics.windowOpened()
	r.logger.Debug("dirty window opened")
}

func (r *Runtime) flush(reason string) {
	pending := r.dirty.Len()
	start := time.Now()

	prev := r.flushing
	r.flushing = true

	defer func() {
		r.flushing = prev
		r.cancelAutoBatch()
		r.window.resolve()

		r.metrics.flushed(reason, time.Since(start))
		r.logger.Debug("flushed", "reason", reason, "pending", pending)
	}()

	r.traceFlush(reason, pending, func() {
		r.dirty.Drain(r.rerun)
	})
}
