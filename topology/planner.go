package topology

import (
	"github.com/strataui/strata/errors"
	"github.com/strataui/strata/layer"
)

// Plan partitions layer definitions into sequential dependency levels.
// Levels[0] holds layers with no dependencies; every layer in Levels[n]
// depends only on layers in strictly earlier levels. Within a level the
// input order of the definitions is preserved.
type Plan struct {
	Levels [][]layer.Definition
}

// Metrics summarizes a plan for logging and capacity reasoning.
type Metrics struct {
	// Layers is the total number of planned layers.
	Layers int
	// Levels is the number of sequential build phases.
	Levels int
	// MaxParallelism is the size of the largest level, the peak number of
	// concurrent layer builds the plan can produce.
	MaxParallelism int
}

// PlanLayers computes the level partition of defs.
//
// Duplicate names follow the registry's last-write-wins contract: the final
// definition under a name is planned, at the position of the name's first
// occurrence. A pass that schedules nothing while layers remain means the
// graph has a cycle or a dependency on a name that was never submitted;
// PlanLayers then fails with an errors.CycleError naming the stuck layers
// in input order.
func PlanLayers(defs []layer.Definition) (Plan, error) {
	ordered := dedupe(defs)

	scheduled := make(map[string]bool, len(ordered))
	levels := make([][]layer.Definition, 0, len(ordered))
	remaining := len(ordered)

	for remaining > 0 {
		var level []layer.Definition
		for _, def := range ordered {
			if scheduled[def.Name] {
				continue
			}
			if dependenciesMet(def, scheduled) {
				level = append(level, def)
			}
		}

		if len(level) == 0 {
			stuck := make([]string, 0, remaining)
			for _, def := range ordered {
				if !scheduled[def.Name] {
					stuck = append(stuck, def.Name)
				}
			}
			return Plan{}, &errors.CycleError{Stuck: stuck}
		}

		// Mark after the pass so a layer never lands in the same level as
		// one of its dependencies.
		for _, def := range level {
			scheduled[def.Name] = true
		}
		levels = append(levels, level)
		remaining -= len(level)
	}

	return Plan{Levels: levels}, nil
}

// Metrics computes the plan's summary numbers.
func (p Plan) Metrics() Metrics {
	m := Metrics{Levels: len(p.Levels)}
	for _, level := range p.Levels {
		m.Layers += len(level)
		if len(level) > m.MaxParallelism {
			m.MaxParallelism = len(level)
		}
	}
	return m
}

// Layers returns the planned definitions flattened in build order.
func (p Plan) Layers() []layer.Definition {
	var out []layer.Definition
	for _, level := range p.Levels {
		out = append(out, level...)
	}
	return out
}

func dedupe(defs []layer.Definition) []layer.Definition {
	positions := make(map[string]int, len(defs))
	ordered := make([]layer.Definition, 0, len(defs))
	for _, def := range defs {
		if i, ok := positions[def.Name]; ok {
			ordered[i] = def
			continue
		}
		positions[def.Name] = len(ordered)
		ordered = append(ordered, def)
	}
	return ordered
}

func dependenciesMet(def layer.Definition, scheduled map[string]bool) bool {
	for _, dep := range def.Dependencies {
		if !scheduled[dep] {
			return false
		}
	}
	return true
}
