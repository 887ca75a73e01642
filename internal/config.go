package internal

import (
	"log/slog"

	"github.com/AnatoleLucet/velo/revision"
	"go.opentelemetry.io/otel/trace"
)

// Config holds what an engine is built with.
type Config struct {
	// Logger receives engine logs (default: slog.Default()).
	Logger *slog.Logger

	// Metrics records engine activity (default: none).
	Metrics *Metrics

	// Tracer traces flushes (default: the global OpenTelemetry provider).
	Tracer trace.Tracer

	// Scheduler runs auto-batch flushes (default: a Loop owned by the engine).
	Scheduler Scheduler

	// Revisions detects state changes (default: revision.Default()).
	// Mutable values stored in states must be wrapped by a factory using
	// the same tracker.
	Revisions *revision.Tracker
}

type Option func(*Config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithScheduler hands auto-batch flushes to a host scheduler instead of
// the engine's own loop.
func WithScheduler(s Scheduler) Option {
	return func(c *Config) {
		c.Scheduler = s
	}
}

func WithRevisions(t *revision.Tracker) Option {
	return func(c *Config) {
		c.Revisions = t
	}
}

func defaultConfig() Config {
	return Config{
		Logger:    slog.Default(),
		Metrics:   nil,
		Tracer:    defaultTracer(),
		Scheduler: nil,
		Revisions: revision.Default(),
	}
}
