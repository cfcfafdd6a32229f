package runtime

import (
	"time"

	"github.com/strataui/strata/layer"
)

// LayerStatus is a point-in-time snapshot of one layer's lifecycle.
type LayerStatus struct {
	Name         string
	Dependencies []string
	Level        int
	State        layer.State
	Err          error

	// Duration is the layer's build step wall time; zero when the layer
	// never built.
	Duration time.Duration

	// BuildOrder is the layer's index in build completion order, -1 when
	// the layer never built. Disposal walks this order backwards.
	BuildOrder int
}

// Status reports every planned layer in plan order. It remains available
// after a failed Start and after Dispose.
func (r *Runtime) Status() []LayerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	levels := levelIndex(r.plan.Levels)
	statuses := make([]LayerStatus, 0, len(r.planOrder))
	for _, name := range r.planOrder {
		ml := r.layers[name]
		statuses = append(statuses, LayerStatus{
			Name:         ml.Definition.Name,
			Dependencies: ml.Definition.Dependencies,
			Level:        levels[name],
			State:        ml.State,
			Err:          ml.Err,
			Duration:     ml.Duration,
			BuildOrder:   ml.BuildOrder,
		})
	}
	return statuses
}

// State returns the lifecycle state of one layer.
func (r *Runtime) State(name string) (layer.State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ml, ok := r.layers[name]
	if !ok {
		return layer.StateNotBuilt, false
	}
	return ml.State, true
}

// Uptime is the time since the build committed, zero for a runtime that
// never committed or has been disposed.
func (r *Runtime) Uptime() time.Duration {
	if !r.built.Load() || r.disposed.Load() {
		return 0
	}

	r.mu.RLock()
	startedAt := r.startedAt
	r.mu.RUnlock()

	return r.clock.Since(startedAt)
}

func levelIndex(levels [][]layer.Definition) map[string]int {
	index := make(map[string]int)
	for i, level := range levels {
		for _, def := range level {
			index[def.Name] = i
		}
	}
	return index
}
