// Package builder executes the build step for a single layer.
//
// A build runs a fixed sequence against the shared registry set:
//
//  1. Resolve effective props (DeriveProps over the store when both are
//     present, declared Props otherwise).
//  2. Register the layer definition, its props, and its components.
//  3. Invoke every Provides factory eagerly, exactly once, and register
//     each product under its service key.
//  4. Assemble the SetupContext: a Dependency handle per declared
//     dependency, the layer's props and store, the full definition list,
//     and registry accessors. A declared dependency absent from the layer
//     registry fails the build with a DependencyNotFoundError.
//  5. Invoke OnMount, then Setup. Setup may return a cleanup, which is
//     recorded. When OnUnmount is declared it is recorded after the setup
//     cleanup, so reverse-order teardown runs it first.
//
// A hook failure is forwarded to the layer's OnError hook and then
// returned; registrations made before the failure stay visible to later
// layers of the same run. Panics inside hooks come back as
// HookPanicError values rather than crashing the build goroutine.
//
// The returned Result carries an aggregate Cleanup that never fails:
// teardown errors and panics are routed to OnError, counted, and
// swallowed so one layer's failing teardown cannot block the next. The
// engine collects Results in completion order and disposes them in
// reverse.
package builder
