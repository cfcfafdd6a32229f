package layer

// Resolver resolves names against the shared registries of a build. The
// accessors observe every registration made so far, which during a build
// means layers from earlier levels plus the caller's own registrations.
type Resolver interface {
	// Layer returns the registered definition for name.
	Layer(name string) (Definition, bool)

	// Service returns the instance a Provides factory produced for key.
	Service(key string) (any, bool)

	// Component returns the component ref registered under name.
	Component(name string) (ComponentRef, bool)
}

// Dependency is the handle a layer receives for each name it lists in
// Dependencies: the dependency layer's derived props plus resolver access to
// the shared registries.
type Dependency struct {
	// Name is the dependency layer's name.
	Name string

	// Props holds the dependency layer's derived props as registered when
	// it was built.
	Props map[string]any

	Resolver
}

// SetupContext carries everything a layer's hooks may touch: the layer's own
// derived props and store handle, a Dependency per declared dependency, the
// full list of definitions in the build, and resolver access to the shared
// registries.
type SetupContext struct {
	// LayerName is the owning layer's name.
	LayerName string

	// Props holds the owning layer's derived props.
	Props map[string]any

	// Store is the opaque store handle from the definition, if any.
	Store any

	// Deps maps each declared dependency name to its handle. Only names
	// listed in the definition's Dependencies appear here.
	Deps map[string]Dependency

	// Layers is the full resolved list of definitions in the build, in
	// level order: dependencies always precede their dependents.
	Layers []Definition

	Resolver
}

// Dep returns the handle for a declared dependency.
func (sc *SetupContext) Dep(name string) (Dependency, bool) {
	d, ok := sc.Deps[name]
	return d, ok
}
