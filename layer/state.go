package layer

// State represents the current lifecycle state of a layer
type State int

const (
	// StateNotBuilt indicates the layer was submitted but its build has not started
	StateNotBuilt State = iota
	// StateBuilding indicates the layer's build step is in flight
	StateBuilding
	// StateBuilt indicates the layer built successfully
	StateBuilt
	// StateReady indicates the post-build ready phase has completed
	StateReady
	// StateFailed indicates a mount or setup hook failed during the build
	StateFailed
	// StateDisposed indicates the layer's cleanups have run; a disposed layer is never reused
	StateDisposed
)

// String returns a string representation of the layer state
func (s State) String() string {
	switch s {
	case StateNotBuilt:
		return "not_built"
	case StateBuilding:
		return "building"
	case StateBuilt:
		return "built"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
