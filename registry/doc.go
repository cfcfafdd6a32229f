// Package registry provides the keyed stores a strata build populates and
// queries: layer definitions, derived props, service instances, and opaque
// component refs, bundled as a Set that implements layer.Resolver.
//
// Registration is last-write-wins: re-registering a key silently overwrites
// the previous entry. Every store is independently RWMutex-guarded because
// layers built in parallel within a level register concurrently.
package registry
