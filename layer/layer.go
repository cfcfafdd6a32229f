package layer

import (
	"context"
	"fmt"

	"github.com/strataui/strata/errors"
)

// ComponentRef is an opaque handle to a component a layer contributes. The
// orchestrator stores refs by name and returns them on lookup; it never
// introspects them.
type ComponentRef any

// Cleanup releases resources acquired during a layer's setup. A layer's
// recorded cleanups run in reverse recording order during teardown; errors
// are routed to the layer's OnError hook and never propagate.
type Cleanup func(ctx context.Context) error

// Definition declares a named layer: the layers it depends on, the props,
// components, and services it contributes, and its lifecycle hooks. A
// Definition is plain data and is safe to copy; hooks are optional unless
// documented otherwise.
type Definition struct {
	// Name uniquely identifies the layer. Registering a second definition
	// under the same name silently overwrites the first, so callers must
	// guarantee uniqueness.
	Name string

	// Dependencies lists the names of layers that must finish building
	// before this layer's build starts.
	Dependencies []string

	// Props holds static props contributed to the props registry. Ignored
	// when both DeriveProps and Store are set.
	Props map[string]any

	// DeriveProps computes this layer's props from Store at build time.
	// Consulted only when Store is also non-nil.
	DeriveProps func(store any) map[string]any

	// Store is an opaque handle passed to DeriveProps and exposed on the
	// SetupContext. The orchestrator never inspects it.
	Store any

	// Components maps names to opaque refs placed in the component
	// registry for lookup by this and later layers.
	Components map[string]ComponentRef

	// Provides maps service keys to zero-argument factories. Each factory
	// runs exactly once, eagerly, while the layer builds; its result lands
	// in the service registry under the key.
	Provides map[string]func() any

	// OnMount runs after the layer's registrations and before Setup. An
	// error fails the layer and the whole build.
	OnMount func(ctx context.Context, sc *SetupContext) error

	// Setup is the layer's main initialization hook. A non-nil returned
	// Cleanup is recorded for teardown. An error fails the layer and the
	// whole build.
	Setup func(ctx context.Context, sc *SetupContext) (Cleanup, error)

	// OnUnmount runs during teardown before the Setup-returned cleanup.
	// Its error is routed to OnError and swallowed.
	OnUnmount func(ctx context.Context, sc *SetupContext) error

	// OnReady runs after every layer in the build has been built. Failures
	// are discarded and never reported.
	OnReady func(ctx context.Context, sc *SetupContext, all []Definition) error

	// OnError observes this layer's hook and cleanup failures. It is
	// called synchronously on the failing goroutine and must not block.
	OnError func(err error, sc *SetupContext)
}

// Validate checks that the definition can be registered and built.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.ErrEmptyLayerName
	}
	for key, factory := range d.Provides {
		if factory == nil {
			return fmt.Errorf("layer %q provides %q: %w", d.Name, key, errors.ErrNilFactory)
		}
	}
	return nil
}

// EffectiveProps resolves the layer's props: DeriveProps(Store) when both
// are present, else the static Props, else an empty map. The result is never
// nil.
func (d Definition) EffectiveProps() map[string]any {
	if d.DeriveProps != nil && d.Store != nil {
		if props := d.DeriveProps(d.Store); props != nil {
			return props
		}
		return map[string]any{}
	}
	if d.Props != nil {
		return d.Props
	}
	return map[string]any{}
}
