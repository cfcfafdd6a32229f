// Package errors provides standardized error handling for the strata build
// pipeline. It defines the typed errors surfaced by topology planning, layer
// building, and preset resolution, along with standard error variables and
// helper functions for consistent error wrapping across the system.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error variables for common conditions
var (
	// Definition validation errors
	ErrEmptyLayerName = errors.New("layer name must not be empty")
	ErrNilFactory     = errors.New("provides factory must not be nil")

	// Preset errors
	ErrPresetNotFound = errors.New("preset not found")
)

// DependencyNotFoundError reports a declared dependency that is missing from
// the layer registry at build time. This is fatal: the enclosing layer build
// aborts and the orchestration fails.
type DependencyNotFoundError struct {
	Layer      string
	Dependency string
}

// Error implements the error interface
func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("layer %q: dependency %q not found in layer registry", e.Layer, e.Dependency)
}

// CycleError reports that topology planning got stuck: a scheduling pass
// collected no layers while unscheduled layers remained. This covers both
// genuine dependency cycles and dependencies on names that were never
// submitted. Stuck preserves the input order of the unschedulable layers.
type CycleError struct {
	Stuck []string
}

// Error implements the error interface
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle or unresolved dependency among layers: %s", strings.Join(e.Stuck, ", "))
}

// ExtendsCycleError reports a cycle in a preset's extends chain. Path holds
// the walk from the root preset to the repeated entry.
type ExtendsCycleError struct {
	Path []string
}

// Error implements the error interface
func (e *ExtendsCycleError) Error() string {
	return fmt.Sprintf("preset extends cycle: %s", strings.Join(e.Path, " -> "))
}

// HookPanicError wraps a panic recovered from a user-supplied layer hook so
// it can travel the same failure path as a returned error.
type HookPanicError struct {
	Layer string
	Hook  string
	Value any
}

// Error implements the error interface
func (e *HookPanicError) Error() string {
	return fmt.Sprintf("layer %q: panic in %s hook: %v", e.Layer, e.Hook, e.Value)
}

// IsDependencyNotFound checks whether err carries a DependencyNotFoundError.
func IsDependencyNotFound(err error) bool {
	var dnf *DependencyNotFoundError
	return errors.As(err, &dnf)
}

// IsCycle checks whether err carries a CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// IsExtendsCycle checks whether err carries an ExtendsCycleError.
func IsExtendsCycle(err error) bool {
	var ece *ExtendsCycleError
	return errors.As(err, &ece)
}

// IsHookPanic checks whether err carries a HookPanicError.
func IsHookPanic(err error) bool {
	var hpe *HookPanicError
	return errors.As(err, &hpe)
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}
