package preset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/strataui/strata/errors"
)

// Preset is a named bundle of route, guard, and provider references that
// can extend other presets.
type Preset struct {
	Name      string   `json:"name" yaml:"name"`
	Extends   []string `json:"extends,omitempty" yaml:"extends,omitempty"`
	Routes    []string `json:"routes,omitempty" yaml:"routes,omitempty"`
	Guards    []string `json:"guards,omitempty" yaml:"guards,omitempty"`
	Providers []string `json:"providers,omitempty" yaml:"providers,omitempty"`
}

// document is the on-disk shape of a preset file.
type document struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Load parses a YAML preset document. Each preset's Name is taken from its
// map key.
func Load(data []byte) (map[string]Preset, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "preset", "Load", "parse yaml")
	}

	presets := make(map[string]Preset, len(doc.Presets))
	for name, p := range doc.Presets {
		p.Name = name
		presets[name] = p
	}
	return presets, nil
}

// Resolve flattens the named preset's extends tree into one Preset.
//
// Parents contribute first, depth first, in declaration order; the
// preset's own entries come last. Lists concatenate without
// deduplication, so a preset reachable through two parents contributes
// twice. A preset that is revisited while still on the walk stack fails
// with an ExtendsCycleError naming the path.
func Resolve(name string, presets map[string]Preset) (Preset, error) {
	return resolve(name, presets, nil)
}

func resolve(name string, presets map[string]Preset, stack []string) (Preset, error) {
	for _, seen := range stack {
		if seen == name {
			path := make([]string, 0, len(stack)+1)
			path = append(path, stack...)
			path = append(path, name)
			return Preset{}, &errors.ExtendsCycleError{Path: path}
		}
	}

	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset %q: %w", name, errors.ErrPresetNotFound)
	}

	stack = append(stack, name)
	merged := Preset{Name: name, Extends: p.Extends}
	for _, parent := range p.Extends {
		resolved, err := resolve(parent, presets, stack)
		if err != nil {
			return Preset{}, err
		}
		merged.Routes = append(merged.Routes, resolved.Routes...)
		merged.Guards = append(merged.Guards, resolved.Guards...)
		merged.Providers = append(merged.Providers, resolved.Providers...)
	}

	merged.Routes = append(merged.Routes, p.Routes...)
	merged.Guards = append(merged.Guards, p.Guards...)
	merged.Providers = append(merged.Providers, p.Providers...)
	return merged, nil
}
