package velo

import (
	"log/slog"

	"github.com/AnatoleLucet/velo/internal"
	"github.com/AnatoleLucet/velo/revision"
	"github.com/google/uuid"
)

type (
	// Completion resolves once every reaction dirtied in a window has run.
	Completion = internal.Completion

	// Loop is the cooperative task queue auto-batch flushes run on.
	Loop = internal.Loop

	// Scheduler lets a host run auto-batch flushes on its own loop.
	Scheduler = internal.Scheduler

	Metrics       = internal.Metrics
	MetricsConfig = internal.MetricsConfig
	Option        = internal.Option
)

var (
	// WithLogger sets the engine's logger. Records carry an engine_id attribute.
	WithLogger = internal.WithLogger

	// WithMetrics reports engine activity to metrics built by NewMetrics.
	WithMetrics = internal.WithMetrics

	// WithTracer sets the tracer flush spans are started with.
	WithTracer = internal.WithTracer

	// WithScheduler hands auto-batch flushes to a host scheduler. The
	// engine then has no Loop and Completion.Wait only blocks.
	WithScheduler = internal.WithScheduler

	// WithRevisions sets the revision tracker used to detect changes.
	WithRevisions = internal.WithRevisions

	// NewMetrics registers the engine collectors.
	NewMetrics = internal.NewMetrics

	// NewLoop creates an empty loop, e.g. to drive several hosts' tasks.
	NewLoop = internal.NewLoop
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Engine owns a set of states and reactions. It is single-goroutine: all
// calls, and the loop running its auto-batches, must share one goroutine.
type Engine struct {
	rt *internal.Runtime
}

// New creates an independent engine.
func New(opts ...Option) *Engine {
	return &Engine{internal.NewRuntime(opts...)}
}

// Default returns the calling goroutine's default engine.
func Default() *Engine {
	return &Engine{internal.GetRuntime()}
}

// ReleaseDefault forgets the calling goroutine's default engine.
func ReleaseDefault() {
	internal.ReleaseRuntime()
}

func (e *Engine) ID() uuid.UUID { return e.rt.ID() }

func (e *Engine) Logger() *slog.Logger { return e.rt.Logger() }

// Loop returns the loop auto-batch flushes are scheduled on, or nil when
// the engine was created WithScheduler.
func (e *Engine) Loop() *Loop { return e.rt.Loop() }

// Revisions returns the tracker the engine detects changes with.
func (e *Engine) Revisions() *revision.Tracker { return e.rt.Revisions() }

// CreateReaction registers fn and runs it once, right away. While the
// engine is recording, every state fn reads becomes a dependency: fn runs
// again whenever one of them changes.
func (e *Engine) CreateReaction(fn func()) {
	e.rt.NewReaction(fn)
}

// Record runs fn with dependency recording on. Records nest.
func (e *Engine) Record(fn func()) {
	e.rt.Record(fn)
}

// BatchReactions runs fn and defers the reactions it triggers until it
// returns, so each runs at most once and sees only final values.
func (e *Engine) BatchReactions(fn func()) {
	e.rt.Batch(fn)
}

// Flush runs every pending reaction now and cancels the pending
// auto-batch.
func (e *Engine) Flush() {
	e.rt.Flush()
}

// ToBeClean returns the completion of the current dirty window. It is
// already resolved when nothing is pending.
func (e *Engine) ToBeClean() *Completion {
	return e.rt.ToBeClean()
}

// Reactions returns how many reactions were created.
func (e *Engine) Reactions() int {
	return e.rt.Reactions()
}

// Pending returns how many reactions wait for the next flush.
func (e *Engine) Pending() int {
	return e.rt.Pending()
}

// Record runs fn with dependency recording on and returns its result.
func Record[T any](e *Engine, fn func() T) T {
	var result T
	e.rt.Record(func() { result = fn() })
	return result
}

// Batch is BatchReactions returning fn's result.
func Batch[R any](e *Engine, fn func() R) R {
	var result R
	e.rt.Batch(func() { result = fn() })
	return result
}
