package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/strataui/strata/errors"
	"github.com/strataui/strata/layer"
	"github.com/strataui/strata/metric"
	"github.com/strataui/strata/registry"
)

// Result is the outcome of one successful layer build.
type Result struct {
	// Layer is the definition that built.
	Layer layer.Definition

	// Cleanup tears the layer down: the layer's recorded cleanups run in
	// reverse recording order, each individually caught, routed to the
	// layer's OnError hook, and swallowed. Cleanup itself never fails and
	// is never nil.
	Cleanup func(ctx context.Context)

	// Ready invokes the layer's OnReady hook; nil when the layer declares
	// none. A panic inside the hook comes back as an error.
	Ready func(ctx context.Context) error

	// Duration is the wall time the build step took.
	Duration time.Duration
}

// Builder executes single-layer build steps against a shared registry set.
// A Builder is safe for concurrent use; the engine runs one Build per layer
// goroutine within a level.
type Builder struct {
	regs    *registry.Set
	logger  *slog.Logger
	metrics *metric.Metrics
	clock   clockwork.Clock
}

// New creates a Builder from its dependencies.
func New(deps Dependencies) *Builder {
	return &Builder{
		regs:    deps.Registries,
		logger:  deps.GetLogger(),
		metrics: deps.Metrics,
		clock:   deps.GetClock(),
	}
}

// namedCleanup keeps the originating hook name with a recorded cleanup so
// teardown failures can name their source.
type namedCleanup struct {
	hook string
	fn   layer.Cleanup
}

// Build runs the build step for def against the shared registries:
// registrations first, then the eager Provides factories, then the OnMount
// and Setup hooks. all is the full resolved definition list handed through
// to hooks.
//
// A hook error (or recovered panic) is forwarded to the layer's OnError
// hook and then returned, failing the layer; registrations made before the
// failure stay in place. The returned Result is valid only when err is nil.
func (b *Builder) Build(ctx context.Context, def layer.Definition, all []layer.Definition) (Result, error) {
	start := b.clock.Now()

	props := def.EffectiveProps()

	b.regs.Layers.Register(def.Name, def)
	b.regs.Props.Register(def.Name, props)
	for name, ref := range def.Components {
		b.regs.Components.Register(name, ref)
	}

	// Provides factories run eagerly, exactly once, never lazily.
	for key, factory := range def.Provides {
		b.regs.Services.Register(key, factory())
	}

	sc, err := b.setupContext(def, props, all)
	if err != nil {
		b.logger.Error("layer dependency resolution failed", "layer", def.Name, "error", err)
		return Result{}, err
	}

	cleanups := make([]namedCleanup, 0, 2)

	if def.OnMount != nil {
		if err := runHook(def.Name, "onMount", func() error { return def.OnMount(ctx, sc) }); err != nil {
			b.observeError(def, sc, err)
			b.logger.Error("layer onMount failed", "layer", def.Name, "error", err)
			return Result{}, errors.Wrap(err, "Builder", "Build", "invoke onMount")
		}
	}

	if def.Setup != nil {
		cleanup, err := b.runSetup(ctx, def, sc)
		if err != nil {
			b.observeError(def, sc, err)
			b.logger.Error("layer setup failed", "layer", def.Name, "error", err)
			return Result{}, errors.Wrap(err, "Builder", "Build", "invoke setup")
		}
		if cleanup != nil {
			cleanups = append(cleanups, namedCleanup{hook: "setup cleanup", fn: cleanup})
		}
	}

	// Recorded after the setup cleanup, so reverse-order teardown runs
	// OnUnmount first.
	if def.OnUnmount != nil {
		unmount := def.OnUnmount
		cleanups = append(cleanups, namedCleanup{
			hook: "onUnmount",
			fn:   func(ctx context.Context) error { return unmount(ctx, sc) },
		})
	}

	duration := b.clock.Since(start)
	b.logger.Debug("layer built",
		"layer", def.Name,
		"dependencies", def.Dependencies,
		"duration", duration)

	return Result{
		Layer:    def,
		Cleanup:  b.aggregateCleanup(def, sc, cleanups),
		Ready:    b.readyFunc(def, sc, all),
		Duration: duration,
	}, nil
}

// setupContext assembles the hook context for def: one Dependency handle
// per declared dependency plus the layer's own props, store, and registry
// accessors. A declared dependency missing from the layer registry is
// fatal.
func (b *Builder) setupContext(def layer.Definition, props map[string]any, all []layer.Definition) (*layer.SetupContext, error) {
	deps := make(map[string]layer.Dependency, len(def.Dependencies))
	for _, name := range def.Dependencies {
		if !b.regs.Layers.Has(name) {
			return nil, &errors.DependencyNotFoundError{Layer: def.Name, Dependency: name}
		}
		depProps, ok := b.regs.Props.Get(name)
		if !ok {
			depProps = map[string]any{}
		}
		deps[name] = layer.Dependency{Name: name, Props: depProps, Resolver: b.regs}
	}

	return &layer.SetupContext{
		LayerName: def.Name,
		Props:     props,
		Store:     def.Store,
		Deps:      deps,
		Layers:    all,
		Resolver:  b.regs,
	}, nil
}

// runSetup invokes the Setup hook, converting a panic to a HookPanicError.
func (b *Builder) runSetup(ctx context.Context, def layer.Definition, sc *layer.SetupContext) (cleanup layer.Cleanup, err error) {
	defer func() {
		if r := recover(); r != nil {
			cleanup = nil
			err = &errors.HookPanicError{Layer: def.Name, Hook: "setup", Value: r}
		}
	}()
	return def.Setup(ctx, sc)
}

// aggregateCleanup folds the recorded cleanups into one never-failing
// teardown running in reverse recording order. Each entry's error or panic
// is routed to OnError and swallowed.
func (b *Builder) aggregateCleanup(def layer.Definition, sc *layer.SetupContext, cleanups []namedCleanup) func(context.Context) {
	return func(ctx context.Context) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			entry := cleanups[i]
			if err := runHook(def.Name, entry.hook, func() error { return entry.fn(ctx) }); err != nil {
				b.observeError(def, sc, err)
				b.metrics.RecordCleanupFailure(def.Name)
				b.logger.Debug("layer cleanup failed",
					"layer", def.Name,
					"hook", entry.hook,
					"error", err)
			}
		}
	}
}

// readyFunc wraps the OnReady hook for the engine's ready phase.
func (b *Builder) readyFunc(def layer.Definition, sc *layer.SetupContext, all []layer.Definition) func(context.Context) error {
	if def.OnReady == nil {
		return nil
	}
	onReady := def.OnReady
	return func(ctx context.Context) error {
		return runHook(def.Name, "onReady", func() error { return onReady(ctx, sc, all) })
	}
}

// observeError forwards err to the layer's OnError hook when present. The
// hook is an observation side channel; a panic inside it is contained so it
// cannot break the cleanup contract.
func (b *Builder) observeError(def layer.Definition, sc *layer.SetupContext, err error) {
	if def.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("layer onError hook panicked", "layer", def.Name, "panic", r)
		}
	}()
	def.OnError(err, sc)
}

// runHook invokes a user hook, converting a panic to a HookPanicError.
func runHook(layerName, hookName string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.HookPanicError{Layer: layerName, Hook: hookName, Value: r}
		}
	}()
	return fn()
}
