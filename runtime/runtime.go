package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/strataui/strata/builder"
	"github.com/strataui/strata/engine"
	"github.com/strataui/strata/errors"
	"github.com/strataui/strata/layer"
	"github.com/strataui/strata/metric"
	"github.com/strataui/strata/registry"
	"github.com/strataui/strata/topology"
	"github.com/strataui/strata/trace"
)

// Runtime holds one bootstrapped layer system: the registries the build
// populated, the cleanups it recorded, and per-layer state. A Runtime is
// safe for concurrent use.
type Runtime struct {
	id      string
	logger  *slog.Logger
	metrics *metric.Metrics
	clock   clockwork.Clock
	hooks   trace.Hooks
	regs    *registry.Set

	mu        sync.RWMutex
	layers    map[string]*managedLayer
	planOrder []string
	results   []builder.Result
	plan      topology.Plan
	startedAt time.Time

	built    atomic.Bool
	disposed atomic.Bool
}

// managedLayer tracks one layer's lifecycle inside a runtime.
type managedLayer struct {
	Definition layer.Definition
	State      layer.State
	Err        error
	Duration   time.Duration
	BuildOrder int
}

// Start plans defs into dependency levels, builds every level, and brings
// the result up as a Runtime.
//
// Start returns a non-nil Runtime even when err is non-nil: a failed run
// leaves the layers that did build in place, and the caller decides when
// to Dispose them. Nothing is torn down automatically. The queryable view
// (Layer, Props, Service, Component) opens only after the whole build
// committed; on a failed run it stays closed while Status still reports
// per-layer outcomes.
//
// After the build commits, every built layer's OnReady hook runs on its
// own goroutine. Start returns once all of them have finished; their
// outcomes are discarded.
func Start(ctx context.Context, defs []layer.Definition, opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		id:     uuid.NewString(),
		logger: slog.Default(),
		clock:  clockwork.NewRealClock(),
		regs:   registry.NewSet(),
		layers: make(map[string]*managedLayer),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger = rt.logger.With("runtime_id", rt.id)

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			rt.metrics.RecordBuild(false)
			return rt, errors.Wrap(err, "Runtime", "Start", "validate definitions")
		}
	}

	plan, err := topology.PlanLayers(defs)
	if err != nil {
		rt.metrics.RecordBuild(false)
		rt.logger.Error("layer planning failed", "error", err)
		return rt, errors.Wrap(err, "Runtime", "Start", "plan layers")
	}
	rt.plan = plan

	for _, def := range plan.Layers() {
		rt.planOrder = append(rt.planOrder, def.Name)
		rt.layers[def.Name] = &managedLayer{
			Definition: def,
			State:      layer.StateNotBuilt,
			BuildOrder: -1,
		}
	}

	eng := engine.New(builder.Dependencies{
		Registries: rt.regs,
		Logger:     rt.logger,
		Metrics:    rt.metrics,
		Clock:      rt.clock,
	}, rt.hooks)

	outcome, buildErr := eng.Run(ctx, plan)
	rt.recordOutcome(outcome)

	if buildErr != nil {
		rt.metrics.RecordBuild(false)
		rt.logger.Error("runtime start failed",
			"built", len(outcome.Results),
			"failed", len(outcome.Failed),
			"error", buildErr)
		return rt, errors.Wrap(buildErr, "Runtime", "Start", "build layers")
	}

	// Commit: the view opens before any ready work runs.
	rt.mu.Lock()
	rt.startedAt = rt.clock.Now()
	rt.mu.Unlock()
	rt.built.Store(true)
	rt.metrics.RecordBuild(true)

	eng.Ready(ctx, outcome.Results)
	rt.markReady(outcome.Results)

	rt.logger.Info("runtime started",
		"layers", len(outcome.Results),
		"levels", outcome.Levels)
	return rt, nil
}

// recordOutcome folds the engine outcome into per-layer state.
func (r *Runtime) recordOutcome(outcome *engine.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = outcome.Results
	for i, res := range outcome.Results {
		if ml, ok := r.layers[res.Layer.Name]; ok {
			ml.State = layer.StateBuilt
			ml.Duration = res.Duration
			ml.BuildOrder = i
		}
	}
	for name, err := range outcome.Failed {
		if ml, ok := r.layers[name]; ok {
			ml.State = layer.StateFailed
			ml.Err = err
		}
	}
}

// markReady transitions built layers once the ready phase has joined.
// Ready outcomes are not observed, so the transition is unconditional.
func (r *Runtime) markReady(results []builder.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range results {
		if ml, ok := r.layers[res.Layer.Name]; ok {
			ml.State = layer.StateReady
		}
		r.metrics.RecordLayerState(res.Layer.Name, int(layer.StateReady))
	}
}

// ID returns the runtime's unique identifier.
func (r *Runtime) ID() string {
	return r.id
}

// view returns the registries when the queryable view is open: after a
// committed build and before Dispose.
func (r *Runtime) view() (*registry.Set, bool) {
	if !r.built.Load() || r.disposed.Load() {
		return nil, false
	}
	return r.regs, true
}

// Layer returns a built layer's definition by name.
func (r *Runtime) Layer(name string) (layer.Definition, bool) {
	regs, ok := r.view()
	if !ok {
		return layer.Definition{}, false
	}
	return regs.Layer(name)
}

// Props returns a built layer's effective props by name.
func (r *Runtime) Props(name string) (map[string]any, bool) {
	regs, ok := r.view()
	if !ok {
		return nil, false
	}
	return regs.Props.Get(name)
}

// Service returns a provided service by key.
func (r *Runtime) Service(key string) (any, bool) {
	regs, ok := r.view()
	if !ok {
		return nil, false
	}
	return regs.Service(key)
}

// Component returns a registered component reference by name.
func (r *Runtime) Component(name string) (layer.ComponentRef, bool) {
	regs, ok := r.view()
	if !ok {
		return nil, false
	}
	return regs.Component(name)
}

// Layers returns the names of all registered layers, sorted.
func (r *Runtime) Layers() []string {
	regs, ok := r.view()
	if !ok {
		return nil
	}
	return regs.Layers.Keys()
}

// ServiceAs resolves a service by key and asserts it to T.
func ServiceAs[T any](r *Runtime, key string) (T, bool) {
	regs, ok := r.view()
	if !ok {
		var zero T
		return zero, false
	}
	return registry.ServiceAs[T](regs, key)
}

// BuildMetrics summarizes the plan the runtime was built from.
func (r *Runtime) BuildMetrics() topology.Metrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plan.Metrics()
}

// Graph exports the planned dependency graph for tooling.
func (r *Runtime) Graph() topology.Graph {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plan.Graph()
}

// Dispose tears the runtime down: the queryable view closes, then every
// built layer's cleanup runs in reverse build completion order. Dispose
// never fails; cleanup errors were already routed to each layer's OnError
// hook and swallowed. Later calls are no-ops.
func (r *Runtime) Dispose(ctx context.Context) {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}

	r.mu.Lock()
	results := r.results
	r.results = nil
	r.mu.Unlock()

	for i := len(results) - 1; i >= 0; i-- {
		res := results[i]
		res.Cleanup(ctx)
		r.updateState(res.Layer.Name, layer.StateDisposed)
		r.metrics.RecordLayerState(res.Layer.Name, int(layer.StateDisposed))
	}

	r.regs.Reset()
	if r.built.Load() {
		r.metrics.RecordDispose()
	}
	r.logger.Info("runtime disposed", "layers", len(results))
}

// Disposed reports whether Dispose has run.
func (r *Runtime) Disposed() bool {
	return r.disposed.Load()
}

func (r *Runtime) updateState(name string, state layer.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ml, ok := r.layers[name]; ok {
		ml.State = state
	}
}
