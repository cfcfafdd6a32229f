// Package layer defines the data model of the strata build pipeline: the
// Definition a caller submits per application layer, the SetupContext its
// hooks receive, and the lifecycle State the runtime tracks per layer.
//
// # Definitions
//
// A layer is a named unit of application startup: a route table, a state
// store, a provider bundle, a plugin. Its Definition declares what it needs
// (Dependencies), what it contributes (Props or DeriveProps+Store,
// Components, Provides factories), and how it starts and stops (the hooks).
//
//	cache := layer.Definition{
//	    Name:         "cache",
//	    Dependencies: []string{"config"},
//	    Provides: map[string]func() any{
//	        "cache.client": func() any { return newClient() },
//	    },
//	    Setup: func(ctx context.Context, sc *layer.SetupContext) (layer.Cleanup, error) {
//	        cfg := sc.Deps["config"].Props
//	        client, err := connect(ctx, cfg["addr"].(string))
//	        if err != nil {
//	            return nil, err
//	        }
//	        return func(context.Context) error { return client.Close() }, nil
//	    },
//	}
//
// # Hook contracts
//
// OnMount and Setup failures are fatal: the layer fails, sibling layers in
// the same level still finish, and the orchestration returns the first
// failure observed. OnUnmount and Setup-returned Cleanup failures are routed
// to OnError and swallowed, so teardown always completes. OnReady failures
// are discarded outright. OnError is a synchronous observation side channel
// and never alters control flow.
//
// # Props precedence
//
// EffectiveProps resolves a layer's props with the fixed precedence: when
// both DeriveProps and Store are set the derived map wins, otherwise the
// static Props map, otherwise an empty map.
//
// The package has no behavior of its own beyond validation and props
// resolution; building lives in the builder and engine packages.
package layer
