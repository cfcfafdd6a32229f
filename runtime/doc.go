// Package runtime is the entry point for bringing a layer system up and
// tearing it down.
//
// # Overview
//
// Start takes a flat list of layer definitions, plans them into dependency
// levels, builds every level through the engine, and returns a Runtime
// handle. The handle answers queries (definitions, props, services,
// components), reports per-layer lifecycle state, and owns teardown.
//
//	rt, err := runtime.Start(ctx, defs,
//		runtime.WithLogger(logger),
//		runtime.WithMetrics(reg.CoreMetrics()),
//	)
//	if err != nil {
//		rt.Dispose(ctx)
//		return err
//	}
//	defer rt.Dispose(context.Background())
//
//	db, ok := runtime.ServiceAs[*sql.DB](rt, "data.db")
//
// # Failure contract
//
// Start never unwinds a partial build on its own. When a layer fails, its
// level still settles, the run stops, and Start returns both the error and
// a Runtime holding everything that did build. The caller chooses the
// moment to Dispose. Status reports which layers built, which failed and
// why, and which never started.
//
// The queryable view opens only after the whole build commits. On a failed
// run Layer, Props, Service, and Component all answer negatively even for
// layers that built.
//
// # Disposal
//
// Dispose runs each built layer's cleanups in reverse build completion
// order: the layer that finished building last tears down first. Cleanup
// errors never propagate; each one was already routed to its layer's
// OnError hook. Dispose is idempotent and closes the queryable view before
// any cleanup runs.
package runtime
