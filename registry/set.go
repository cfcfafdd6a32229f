package registry

import (
	"github.com/strataui/strata/layer"
)

// Set bundles the four registries a build populates. Each store is keyed
// independently: layer names, layer names again for derived props, service
// keys, and component names. A runtime owns exactly one Set; nothing in the
// package is process-global, so independent runtimes never share state.
type Set struct {
	// Layers holds every registered layer definition by name.
	Layers *Store[layer.Definition]

	// Props holds each built layer's derived props by layer name.
	Props *Store[map[string]any]

	// Services holds the instances produced by Provides factories, by
	// service key.
	Services *Store[any]

	// Components holds opaque component refs by name.
	Components *Store[layer.ComponentRef]
}

// Resolver accessors are bound to the Set itself.
var _ layer.Resolver = (*Set)(nil)

// NewSet creates a new empty registry set
func NewSet() *Set {
	return &Set{
		Layers:     NewStore[layer.Definition](),
		Props:      NewStore[map[string]any](),
		Services:   NewStore[any](),
		Components: NewStore[layer.ComponentRef](),
	}
}

// Layer implements layer.Resolver against the layer store.
func (s *Set) Layer(name string) (layer.Definition, bool) {
	return s.Layers.Get(name)
}

// Service implements layer.Resolver against the service store.
func (s *Set) Service(key string) (any, bool) {
	return s.Services.Get(key)
}

// Component implements layer.Resolver against the component store.
func (s *Set) Component(name string) (layer.ComponentRef, bool) {
	return s.Components.Get(name)
}

// Reset clears all four stores. The runtime calls this on dispose.
func (s *Set) Reset() {
	s.Layers.Clear()
	s.Props.Clear()
	s.Services.Clear()
	s.Components.Clear()
}

// ServiceAs resolves a service instance and asserts it to T. The second
// return is false when the key is missing or the instance is not a T.
func ServiceAs[T any](s *Set, key string) (T, bool) {
	var zero T
	value, ok := s.Services.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
