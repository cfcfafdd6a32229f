// Package engine executes topology plans: levels in sequence, layers in
// parallel.
//
// # Overview
//
// The engine package sits between the topology planner and the layer
// builder. It takes a Plan (layers grouped into dependency levels), walks
// the levels strictly in order, and inside each level hands every layer to
// the builder on its own goroutine.
//
// # Architecture
//
//	┌──────────────┐   Plan    ┌──────────────┐
//	│  topology    │ ────────> │    Engine    │
//	│  (planner)   │           │    Run()     │
//	└──────────────┘           └──────┬───────┘
//	                                  │ per level
//	                   ┌──────────────┼──────────────┐
//	                   ▼              ▼              ▼
//	              ┌─────────┐    ┌─────────┐    ┌─────────┐
//	              │ Builder │    │ Builder │    │ Builder │   (one
//	              │ Build() │    │ Build() │    │ Build() │ goroutine
//	              └────┬────┘    └────┬────┘    └────┬────┘ per layer)
//	                   │              │              │
//	                   └──────── join all ───────────┘
//	                                  │
//	                                  ▼
//	                     Outcome.Results (completion order)
//
// # Level semantics
//
// A level never starts before the previous one has fully settled. Inside a
// level the engine uses a plain errgroup: a failing layer does not cancel
// its siblings, every build in the level runs to completion, and the first
// error is surfaced once the level joins. Levels with a single layer build
// inline on the orchestrator goroutine.
//
// Results land in Outcome.Results in the order builds actually complete,
// not declaration order. Reverse disposal walks that slice backwards, so a
// layer that finished later tears down earlier.
//
// # Ready phase
//
// Ready runs separately, after the caller has committed the build: every
// built layer's Ready hook fires on its own goroutine with no concurrency
// bound, and the phase joins before returning. Ready outcomes are
// discarded entirely; readiness work is best effort and never unwinds a
// committed build.
//
// # Cancellation
//
// The run context is consulted between levels only. Cancelling mid-level
// lets the level finish, keeps the registries consistent, and stops the
// run before the next level starts.
package engine
