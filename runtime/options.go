package runtime

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/strataui/strata/metric"
	"github.com/strataui/strata/trace"
)

// Option configures a Runtime before it starts.
type Option func(*Runtime)

// WithLogger sets the logger for the runtime and everything it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics wires build and lifecycle metrics. Without it the runtime
// records nothing.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = metrics
	}
}

// WithClock sets the clock used for build timing.
func WithClock(clock clockwork.Clock) Option {
	return func(r *Runtime) {
		r.clock = clock
	}
}

// WithTraceHooks adds build instrumentation callbacks. Repeated options
// chain in the order given.
func WithTraceHooks(hooks trace.Hooks) Option {
	return func(r *Runtime) {
		r.hooks = r.hooks.Merge(hooks)
	}
}
