package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all build pipeline metrics. All record methods are safe
// on a nil receiver, so callers built without a registry skip recording
// without guarding every call site.
type Metrics struct {
	// Layer metrics
	LayerState         *prometheus.GaugeVec     // by layer
	LayerBuilds        *prometheus.CounterVec   // by layer and status (success/failure)
	LayerBuildDuration *prometheus.HistogramVec // by layer
	CleanupFailures    *prometheus.CounterVec   // by layer

	// Level metrics
	LevelDuration *prometheus.HistogramVec // by level index
	LevelSize     *prometheus.GaugeVec     // by level index

	// Runtime metrics
	BuildsTotal    *prometheus.CounterVec // by status
	ActiveRuntimes prometheus.Gauge
	DisposesTotal  prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all build pipeline metrics
func NewMetrics() *Metrics {
	return &Metrics{
		LayerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "strata",
				Subsystem: "layer",
				Name:      "state",
				Help:      "Layer lifecycle state (0=not_built, 1=building, 2=built, 3=ready, 4=failed, 5=disposed)",
			},
			[]string{"layer"},
		),

		LayerBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "layer",
				Name:      "builds_total",
				Help:      "Total number of layer build attempts",
			},
			[]string{"layer", "status"},
		),

		LayerBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "strata",
				Subsystem: "layer",
				Name:      "build_duration_seconds",
				Help:      "Layer build duration in seconds",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"layer"},
		),

		CleanupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "layer",
				Name:      "cleanup_failures_total",
				Help:      "Total number of swallowed layer cleanup failures",
			},
			[]string{"layer"},
		),

		LevelDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "strata",
				Subsystem: "level",
				Name:      "duration_seconds",
				Help:      "Build level duration in seconds",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"level"},
		),

		LevelSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "strata",
				Subsystem: "level",
				Name:      "size",
				Help:      "Number of layers built concurrently in a level",
			},
			[]string{"level"},
		),

		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "runtime",
				Name:      "builds_total",
				Help:      "Total number of runtime build attempts",
			},
			[]string{"status"},
		),

		ActiveRuntimes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "strata",
				Subsystem: "runtime",
				Name:      "active",
				Help:      "Current number of live (built, undisposed) runtimes",
			},
		),

		DisposesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "strata",
				Subsystem: "runtime",
				Name:      "disposes_total",
				Help:      "Total number of runtime dispose calls",
			},
		),
	}
}

// RecordLayerState updates the layer state gauge
func (m *Metrics) RecordLayerState(layer string, state int) {
	if m == nil {
		return
	}
	m.LayerState.WithLabelValues(layer).Set(float64(state))
}

// RecordLayerBuild records one layer build attempt and its duration
func (m *Metrics) RecordLayerBuild(layer string, success bool, duration time.Duration) {
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}

	m.LayerBuilds.WithLabelValues(layer, status).Inc()
	m.LayerBuildDuration.WithLabelValues(layer).Observe(duration.Seconds())
}

// RecordCleanupFailure counts a swallowed cleanup error
func (m *Metrics) RecordCleanupFailure(layer string) {
	if m == nil {
		return
	}
	m.CleanupFailures.WithLabelValues(layer).Inc()
}

// RecordLevel records one completed build level
func (m *Metrics) RecordLevel(index, size int, duration time.Duration) {
	if m == nil {
		return
	}

	label := strconv.Itoa(index)
	m.LevelSize.WithLabelValues(label).Set(float64(size))
	m.LevelDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordBuild records one whole-runtime build attempt
func (m *Metrics) RecordBuild(success bool) {
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}
	m.BuildsTotal.WithLabelValues(status).Inc()

	if success {
		m.ActiveRuntimes.Inc()
	}
}

// RecordDispose records a runtime dispose
func (m *Metrics) RecordDispose() {
	if m == nil {
		return
	}
	m.DisposesTotal.Inc()
	m.ActiveRuntimes.Dec()
}
