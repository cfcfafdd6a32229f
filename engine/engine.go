package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/strataui/strata/builder"
	"github.com/strataui/strata/errors"
	"github.com/strataui/strata/layer"
	"github.com/strataui/strata/metric"
	"github.com/strataui/strata/topology"
	"github.com/strataui/strata/trace"
)

// Engine drives a topology plan through the layer builder. Levels run
// strictly one after another; layers inside a level build concurrently.
type Engine struct {
	builder *builder.Builder
	logger  *slog.Logger
	metrics *metric.Metrics
	clock   clockwork.Clock
	hooks   trace.Hooks
}

// New creates an Engine sharing the builder's registries and observers.
func New(deps builder.Dependencies, hooks trace.Hooks) *Engine {
	return &Engine{
		builder: builder.New(deps),
		logger:  deps.GetLogger(),
		metrics: deps.Metrics,
		clock:   deps.GetClock(),
		hooks:   hooks,
	}
}

// Outcome is the aggregate of one engine run.
type Outcome struct {
	// Results holds every layer that built, in build completion order.
	// Reverse disposal walks this slice backwards. On a failed run it
	// carries the layers that finished before the run stopped.
	Results []builder.Result

	// Failed maps each layer whose build step failed to its error.
	Failed map[string]error

	// Levels counts the levels the run entered.
	Levels int
}

// Run executes plan level by level against the shared registries. A level
// with one layer builds inline; larger levels fan out one goroutine per
// layer and join all of them before the level settles, whether or not a
// sibling failed. The first error to surface stops the run after its level
// has fully settled, and no later level starts.
//
// The returned Outcome is valid even when err is non-nil: it names the
// layers that built (in completion order, for reverse disposal) and the
// layers that failed. The context is consulted between levels only; a
// level in flight always runs to completion.
func (e *Engine) Run(ctx context.Context, plan topology.Plan) (*Outcome, error) {
	all := plan.Layers()
	outcome := &Outcome{Failed: make(map[string]error)}

	e.logger.Info("build run starting", "layers", len(all), "levels", len(plan.Levels))

	for i, level := range plan.Levels {
		if err := ctx.Err(); err != nil {
			e.logger.Error("build run aborted between levels", "level", i, "error", err)
			return outcome, errors.Wrap(err, "Engine", "Run", fmt.Sprintf("start level %d", i))
		}

		outcome.Levels = i + 1
		if err := e.runLevel(ctx, i, level, all, outcome); err != nil {
			return outcome, errors.Wrap(err, "Engine", "Run", fmt.Sprintf("build level %d", i))
		}
	}

	e.logger.Info("build run complete", "layers", len(outcome.Results), "levels", outcome.Levels)
	return outcome, nil
}

// Ready runs the ready phase over built layers: every non-nil Ready hook
// fires on its own goroutine, all at once, and the phase joins before
// returning. Ready outcomes are discarded; by the time this phase runs the
// build has already committed, and a layer that cannot finish its ready
// work must not take the runtime down with it.
func (e *Engine) Ready(ctx context.Context, results []builder.Result) {
	var wg sync.WaitGroup
	for _, res := range results {
		if res.Ready == nil {
			continue
		}
		ready := res.Ready
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ready(ctx)
		}()
	}
	wg.Wait()
}

// runLevel builds every layer of one level and appends successes to the
// outcome in completion order. It returns the first error a layer build
// surfaced after all of the level's builds have finished.
func (e *Engine) runLevel(ctx context.Context, idx int, level []layer.Definition, all []layer.Definition, outcome *Outcome) error {
	start := e.clock.Now()
	e.emitLevelStart(ctx, idx, level, start)

	var levelErr error
	if len(level) == 1 {
		// A lone layer builds on the orchestrator goroutine.
		def := level[0]
		res, err := e.runLayer(ctx, def, idx, all)
		if err != nil {
			outcome.Failed[def.Name] = err
			levelErr = err
		} else {
			outcome.Results = append(outcome.Results, res)
		}
	} else {
		var mu sync.Mutex
		var g errgroup.Group
		for _, def := range level {
			def := def
			g.Go(func() error {
				res, err := e.runLayer(ctx, def, idx, all)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					outcome.Failed[def.Name] = err
					return err
				}
				outcome.Results = append(outcome.Results, res)
				return nil
			})
		}
		levelErr = g.Wait()
	}

	duration := e.clock.Since(start)
	e.metrics.RecordLevel(idx, len(level), duration)
	e.emitLevelEnd(ctx, idx, level, start, duration, levelErr)

	if levelErr != nil {
		e.logger.Error("level settled with failure",
			"level", idx,
			"size", len(level),
			"duration", duration,
			"error", levelErr)
		return levelErr
	}

	e.logger.Debug("level complete", "level", idx, "size", len(level), "duration", duration)
	return nil
}

// runLayer builds one layer, recording state transitions, build metrics,
// and layer span hooks around the builder call.
func (e *Engine) runLayer(ctx context.Context, def layer.Definition, levelIdx int, all []layer.Definition) (builder.Result, error) {
	start := e.clock.Now()
	e.metrics.RecordLayerState(def.Name, int(layer.StateBuilding))
	e.emitLayerStart(ctx, def, levelIdx, start)

	res, err := e.builder.Build(ctx, def, all)
	duration := e.clock.Since(start)

	e.metrics.RecordLayerBuild(def.Name, err == nil, duration)
	if err != nil {
		e.metrics.RecordLayerState(def.Name, int(layer.StateFailed))
	} else {
		e.metrics.RecordLayerState(def.Name, int(layer.StateBuilt))
	}
	e.emitLayerEnd(ctx, def, levelIdx, start, duration, err)

	return res, err
}

func (e *Engine) emitLevelStart(ctx context.Context, idx int, level []layer.Definition, start time.Time) {
	if e.hooks.OnLevelStart == nil {
		return
	}
	e.hooks.OnLevelStart(ctx, trace.LevelEvent{
		Index:     idx,
		Size:      len(level),
		Layers:    levelNames(level),
		StartedAt: start,
	})
}

func (e *Engine) emitLevelEnd(ctx context.Context, idx int, level []layer.Definition, start time.Time, duration time.Duration, err error) {
	if e.hooks.OnLevelEnd == nil {
		return
	}
	e.hooks.OnLevelEnd(ctx, trace.LevelEvent{
		Index:       idx,
		Size:        len(level),
		Layers:      levelNames(level),
		StartedAt:   start,
		CompletedAt: start.Add(duration),
		Duration:    duration,
		Err:         err,
	})
}

func (e *Engine) emitLayerStart(ctx context.Context, def layer.Definition, level int, start time.Time) {
	if e.hooks.OnLayerStart == nil {
		return
	}
	e.hooks.OnLayerStart(ctx, trace.LayerEvent{
		Name:         def.Name,
		Dependencies: def.Dependencies,
		Level:        level,
		StartedAt:    start,
	})
}

func (e *Engine) emitLayerEnd(ctx context.Context, def layer.Definition, level int, start time.Time, duration time.Duration, err error) {
	if e.hooks.OnLayerEnd == nil {
		return
	}
	e.hooks.OnLayerEnd(ctx, trace.LayerEvent{
		Name:         def.Name,
		Dependencies: def.Dependencies,
		Level:        level,
		StartedAt:    start,
		CompletedAt:  start.Add(duration),
		Duration:     duration,
		Err:          err,
	})
}

func levelNames(level []layer.Definition) []string {
	names := make([]string, len(level))
	for i, def := range level {
		names[i] = def.Name
	}
	return names
}
