// Package metrics exports Prometheus collectors for the reactivity engine and
// the keyed reconciler.
//
// A single Collector satisfies both reactive.Observer and reconcile.Observer:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithRegistry(reg))
//
//	rt := reactive.NewRuntime(reactive.WithObserver(m))
//	r := reconcile.New(keyOf, reconcile.WithObserver(m))
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/reconcile"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for sequence lengths.
	// Default: exponential 1..4096.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "ripple",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records reactivity and reconciliation activity.
type Collector struct {
	effectRuns       prometheus.Counter
	triggers         *prometheus.CounterVec
	effectsNotified  prometheus.Counter
	reentrySkipped   prometheus.Counter
	reconciles       prometheus.Counter
	reconcileOps     *prometheus.CounterVec
	stableLength     prometheus.Histogram
	reconcileLengths prometheus.Histogram
}

var (
	_ reactive.Observer  = (*Collector)(nil)
	_ reconcile.Observer = (*Collector)(nil)
)

// New creates a Collector and registers its metrics. Registering twice with
// the same registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of tracked effect executions",
			ConstLabels: config.ConstLabels,
		}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of change notifications by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		effectsNotified: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_notified_total",
			Help:        "Total number of effects run or scheduled by triggers",
			ConstLabels: config.ConstLabels,
		}),

		reentrySkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reentry_suppressed_total",
			Help:        "Total number of effect runs skipped because the effect was already running",
			ConstLabels: config.ConstLabels,
		}),

		reconciles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconciles_total",
			Help:        "Total number of keyed sequence reconciliations",
			ConstLabels: config.ConstLabels,
		}),

		reconcileOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_ops_total",
			Help:        "Total number of reconciliation operations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		stableLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_stable_length",
			Help:        "Length of the longest stable run kept in place during a move",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		reconcileLengths: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_operations",
			Help:        "Number of operations emitted per reconciliation",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// EffectRun implements reactive.Observer.
func (c *Collector) EffectRun(*reactive.Effect) {
	c.effectRuns.Inc()
}

// Triggered implements reactive.Observer.
func (c *Collector) Triggered(kind reactive.ChangeKind, effects int) {
	c.triggers.WithLabelValues(kind.String()).Inc()
	c.effectsNotified.Add(float64(effects))
}

// ReentrySuppressed implements reactive.Observer.
func (c *Collector) ReentrySuppressed(*reactive.Effect) {
	c.reentrySkipped.Inc()
}

// Reconciled implements reconcile.Observer.
func (c *Collector) Reconciled(s reconcile.Stats) {
	c.reconciles.Inc()
	c.reconcileOps.WithLabelValues(reconcile.OpPatch.String()).Add(float64(s.Patched))
	c.reconcileOps.WithLabelValues(reconcile.OpMount.String()).Add(float64(s.Mounted))
	c.reconcileOps.WithLabelValues(reconcile.OpMove.String()).Add(float64(s.Moved))
	c.reconcileOps.WithLabelValues(reconcile.OpUnmount.String()).Add(float64(s.Unmounted))
	c.reconcileLengths.Observe(float64(s.Total()))
	if s.Moved > 0 {
		c.stableLength.Observe(float64(s.Stable))
	}
}
