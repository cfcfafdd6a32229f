// Package strata bootstraps applications composed of named, interdependent
// layers: planning them into dependency levels, building them in parallel
// where the graph allows, wiring dependency injection between them, and
// tearing the whole arrangement back down in reverse.
//
// # Philosophy: Layers Over Wiring
//
// An application is sliced into layers - auth, data, theme, analytics -
// each declaring what it depends on, what it provides, and how it sets
// itself up. Strata owns the order: a layer never builds before its
// dependencies, independent layers build at the same time, and teardown
// undoes construction back to front. Application code declares; the
// runtime schedules.
//
// Strata does NOT contain:
//   - UI rendering, routing, or widget code (layers carry opaque
//     component references; interpreting them is the host's business)
//   - Module loading or code-splitting (definitions arrive as values)
//   - Cross-process orchestration (one Runtime is one process)
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            runtime                  │  Start / Dispose,
//	│   (lifecycle, queryable view)       │  per-layer state
//	└─────────────────┬───────────────────┘
//	                  │ plans via
//	┌─────────────────▼───────────────────┐
//	│            topology                 │  levels, cycle
//	│     (dependency level planner)      │  detection, graph export
//	└─────────────────┬───────────────────┘
//	                  │ executed by
//	┌─────────────────▼───────────────────┐
//	│             engine                  │  sequential levels,
//	│    (level scheduler, ready phase)   │  parallel layers
//	└─────────────────┬───────────────────┘
//	                  │ builds through
//	┌─────────────────▼───────────────────┐
//	│            builder                  │  hooks, DI context,
//	│      (single-layer build step)      │  cleanup recording
//	└─────────────────┬───────────────────┘
//	                  │ reads and writes
//	┌─────────────────▼───────────────────┐
//	│            registry                 │  layers, props,
//	│    (shared thread-safe stores)      │  services, components
//	└─────────────────────────────────────┘
//
// # Build Pipeline
//
// Start runs one pipeline, level by level:
//
//  1. Validate definitions and plan them into levels. A layer lands in
//     the first level after all of its dependencies.
//  2. Build each level: one goroutine per layer, joined before the next
//     level. Registrations, eager service factories, OnMount, Setup.
//  3. Record each Setup's cleanup and the OnUnmount hook per layer, in
//     build completion order across the whole run.
//  4. Commit: open the queryable view (Layer, Props, Service, Component).
//  5. Ready phase: every OnReady hook at once, outcomes discarded,
//     joined before Start returns.
//
// A failing layer fails its run after its level settles, but nothing is
// unwound automatically: Start hands back the partial Runtime and the
// error, and the caller picks the moment to Dispose. Dispose walks the
// recorded cleanups in reverse completion order and never fails.
//
// # Framework Packages
//
// Core pipeline:
//   - layer: definitions, hooks, setup context, lifecycle states
//   - topology: dependency level planning, cycle detection, DOT/Mermaid
//   - builder: the single-layer build step
//   - engine: level scheduling, parallelism, the ready phase
//   - runtime: Start/Dispose, status, the queryable view
//
// Infrastructure:
//   - registry: thread-safe stores shared across a build
//   - errors: structured errors and the failure taxonomy
//   - metric: Prometheus instrumentation
//   - trace: build span hooks for custom instrumentation
//   - preset: extends-tree config merging, separate from the build path
//
// # Usage
//
// Basic bootstrap:
//
//	defs := []layer.Definition{
//		{
//			Name: "config",
//			Provides: map[string]func() any{
//				"config.values": loadConfig,
//			},
//		},
//		{
//			Name:         "api",
//			Dependencies: []string{"config"},
//			Setup: func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
//				cfg, _ := sc.Service("config.values")
//				client := newClient(cfg)
//				return func(ctx context.Context) error { return client.Close() }, nil
//			},
//		},
//	}
//
//	rt, err := runtime.Start(ctx, defs, runtime.WithLogger(logger))
//	if err != nil {
//		rt.Dispose(ctx)
//		return err
//	}
//	defer rt.Dispose(context.Background())
//
// # Design Principles
//
// Explicit dependencies:
//   - Layers name what they need; the planner orders the rest
//   - No globals: every Runtime owns its registries
//
// Failure isolation:
//   - A layer failure never cancels its level siblings
//   - Cleanup failures are observed, counted, and swallowed
//   - Ready failures are discarded outright
//
// Observability as an option:
//   - slog throughout, Prometheus via WithMetrics, spans via trace.Hooks
//   - All of it optional; a bare Start works
package strata
