package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/strataui/strata/errors"
)

// Registrar is the interface consumers use to add their own collectors next
// to the core build metrics.
type Registrar interface {
	Register(name string, collector prometheus.Collector) error
	Unregister(name string) bool
}

// Registry manages the registration and lifecycle of build metrics on a
// private Prometheus registry.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewRegistry creates a new metrics registry with the core build metrics
// and Go runtime collectors pre-registered
func NewRegistry() *Registry {
	registry := &Registry{
		prometheusRegistry: prometheus.NewRegistry(),
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	registry.Metrics = NewMetrics()
	registry.registerCoreMetrics()

	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core build metrics. It is nil-safe so call sites
// can hold an optional *Registry.
func (r *Registry) CoreMetrics() *Metrics {
	if r == nil {
		return nil
	}
	return r.Metrics
}

// Register adds a caller-supplied collector under a unique name
func (r *Registry) Register(name string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registeredMetrics[name]; exists {
		return errors.Wrap(
			fmt.Errorf("collector %q already registered", name),
			"Registry", "Register", "duplicate collector check")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.Wrap(err, "Registry", "Register",
				fmt.Sprintf("prometheus conflict for collector %q", name))
		}
		return errors.Wrap(err, "Registry", "Register", "prometheus registration")
	}

	r.registeredMetrics[name] = collector
	return nil
}

// Unregister removes a caller-supplied collector from the registry
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, exists := r.registeredMetrics[name]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, name)
	}

	return success
}

// registerCoreMetrics registers all core build metrics
func (r *Registry) registerCoreMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.LayerState,
		r.Metrics.LayerBuilds,
		r.Metrics.LayerBuildDuration,
		r.Metrics.CleanupFailures,
		r.Metrics.LevelDuration,
		r.Metrics.LevelSize,
		r.Metrics.BuildsTotal,
		r.Metrics.ActiveRuntimes,
		r.Metrics.DisposesTotal,
	)
}
