// Package errors provides standardized error handling patterns for strata.
//
// # Overview
//
// The build pipeline distinguishes three failure contracts, and this package
// carries the types that make them inspectable:
//
//   - Fatal build errors: a missing declared dependency
//     (DependencyNotFoundError), a stuck topology pass (CycleError), or a
//     mount/setup hook failure. These abort the orchestration and surface
//     from runtime.Start.
//   - Swallowed cleanup errors: failures inside unmount hooks and
//     setup-returned cleanups are routed to the owning layer's error hook
//     and then discarded. They never surface from Dispose.
//   - Preset resolution errors: ExtendsCycleError and ErrPresetNotFound
//     belong to the preset merge API, which is independent of the build
//     path.
//
// All types support the standard library inspection idioms:
//
//	var dnf *errors.DependencyNotFoundError
//	if errors.As(err, &dnf) {
//	    log.Printf("layer %s is missing %s", dnf.Layer, dnf.Dependency)
//	}
//
//	if errors.IsCycle(err) {
//	    // replan with the stuck layers removed or fixed
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// applied via Wrap:
//
//	if err := def.Validate(); err != nil {
//	    return errors.Wrap(err, "Runtime", "Start", "validate definitions")
//	}
//
// Wrapping preserves errors.Is/errors.As behavior through the chain, so a
// CycleError stays recognizable however deep it travels.
//
// # Panics in user hooks
//
// User-supplied hooks run behind recover; a recovered panic is converted to
// a HookPanicError naming the layer and hook, and then follows the same
// contract as a returned error (fatal for mount/setup, swallowed for
// cleanup and ready callbacks).
package errors
