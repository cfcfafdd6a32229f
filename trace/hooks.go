package trace

import (
	"context"
	"time"
)

// LayerEvent describes one layer build span to hook callbacks.
type LayerEvent struct {
	Name         string
	Dependencies []string
	Level        int
	StartedAt    time.Time
	CompletedAt  time.Time
	Duration     time.Duration
	Err          error
}

// LevelEvent describes one build level span to hook callbacks.
type LevelEvent struct {
	Index       int
	Size        int
	Layers      []string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Err         error
}

// LayerHook is invoked at a layer span boundary.
type LayerHook func(context.Context, LayerEvent)

// LevelHook is invoked at a level span boundary.
type LevelHook func(context.Context, LevelEvent)

// Hooks aggregates optional build instrumentation callbacks. Hooks are
// observational only: the engine invokes them synchronously around the span
// they describe, and they never alter build control flow. Layer hooks for
// layers in the same level fire from concurrent goroutines, so callbacks
// must be safe for concurrent use.
type Hooks struct {
	OnLevelStart LevelHook
	OnLevelEnd   LevelHook
	OnLayerStart LayerHook
	OnLayerEnd   LayerHook
}

// Merge combines two hook sets, running the receiver first.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnLevelStart: chainLevelHooks(h.OnLevelStart, other.OnLevelStart),
		OnLevelEnd:   chainLevelHooks(h.OnLevelEnd, other.OnLevelEnd),
		OnLayerStart: chainLayerHooks(h.OnLayerStart, other.OnLayerStart),
		OnLayerEnd:   chainLayerHooks(h.OnLayerEnd, other.OnLayerEnd),
	}
}

func chainLayerHooks(first, second LayerHook) LayerHook {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(ctx context.Context, event LayerEvent) {
			first(ctx, event)
			second(ctx, event)
		}
	}
}

func chainLevelHooks(first, second LevelHook) LevelHook {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(ctx context.Context, event LevelEvent) {
			first(ctx, event)
			second(ctx, event)
		}
	}
}
