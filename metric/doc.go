// Package metric provides Prometheus-based metrics for the strata build
// pipeline.
//
// A Registry owns a private Prometheus registry pre-loaded with the core
// build metrics (layer states and build durations, level durations and
// sizes, runtime builds and disposes, swallowed cleanup failures) plus the
// standard Go runtime collectors. Callers may add their own collectors via
// Register and expose the whole set through any Prometheus scrape surface
// they already run.
//
// All core metrics use the namespace "strata":
//
//	strata_layer_state{layer="..."}
//	strata_layer_builds_total{layer="...",status="success|failure"}
//	strata_layer_build_duration_seconds{layer="..."}
//	strata_layer_cleanup_failures_total{layer="..."}
//	strata_level_duration_seconds{level="0"}
//	strata_level_size{level="0"}
//	strata_runtime_builds_total{status="success|failure"}
//	strata_runtime_active
//	strata_runtime_disposes_total
//
// The ready phase is deliberately absent from this list: ready callback
// failures are discarded by contract and never observable, not even as a
// counter.
//
// Metrics are optional throughout the pipeline. Every record method on
// Metrics is nil-receiver safe, so the engine and runtime hold a possibly
// nil *Metrics and call it unconditionally.
package metric
