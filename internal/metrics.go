package internal

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flush reasons, used as the "reason" label of flushes_total.
const (
	FlushBatch    = "batch"
	FlushAuto     = "auto"
	FlushExplicit = "explicit"
)

// MetricsConfig configures the engine's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "velo").
	Namespace string

	// Subsystem is the metrics subsystem (default: "engine").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "velo",
		Subsystem:   "engine",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors an engine reports to. Engines
// sharing a registry must share one Metrics. A nil *Metrics records nothing.
type Metrics struct {
	reactionsRun  prometheus.Counter
	reactionPanic prometheus.Counter
	flushes       *prometheus.CounterVec
	flushDuration prometheus.Histogram
	stateWrites   *prometheus.CounterVec
	windowsOpened prometheus.Counter
}

// NewMetrics registers the engine collectors. Zero fields of config take
// their defaults.
func NewMetrics(config MetricsConfig) *Metrics {
	defaults := defaultMetricsConfig()
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.Subsystem == "" {
		config.Subsystem = defaults.Subsystem
	}
	if config.Buckets == nil {
		config.Buckets = defaults.Buckets
	}
	if config.Registry == nil {
		config.Registry = defaults.Registry
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		reactionsRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reactions_run_total",
			Help:        "Total number of reaction runs, creation runs included",
			ConstLabels: config.ConstLabels,
		}),

		reactionPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reaction_panics_total",
			Help:        "Total number of reaction runs that panicked",
			ConstLabels: config.ConstLabels,
		}),

		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flushes by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Time spent running dirty reactions in a flush",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		stateWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_writes_total",
			Help:        "Total number of state writes by whether the value changed",
			ConstLabels: config.ConstLabels,
		}, []string{"changed"}),

		windowsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "windows_opened_total",
			Help:        "Total number of dirty windows opened",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) reactionRan() {
	if m == nil {
		return
	}
	m.reactionsRun.Inc()
}

func (m *Metrics) reactionPanicked() {
	if m == nil {
		return
	}
	m.reactionPanic.Inc()
}

func (m *Metrics) flushed(reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.flushes.WithLabelValues(reason).Inc()
	m.flushDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) stateWritten(changed bool) {
	if m == nil {
		return
	}
	m.stateWrites.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

func (m *Metrics) windowOpened() {
	if m == nil {
		return
	}
	m.windowsOpened.Inc()
}
