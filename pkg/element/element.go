// Package element defines the element data model and the YAML descriptor
// loader. An element is a named unit of work: an ordered pipeline of steps,
// optional dependency metadata, and nothing else. Elements are immutable
// after loading and consumed once per run.
package element

// Metadata carries informational and scheduling attributes of an element
type Metadata struct {
	// Version is informational only
	Version string `yaml:"version"`

	// Dependencies names elements that must complete before this one runs
	Dependencies []string `yaml:"dependencies"`
}

// Step is one tool invocation within an element's pipeline. Tool must name
// a registered tool; With must conform to that tool's parameter schema.
type Step struct {
	Tool string         `yaml:"tool"`
	With map[string]any `yaml:"with"`
}

// Element is a named, independently schedulable unit made of an ordered
// step sequence plus optional dependency metadata.
type Element struct {
	Name     string   `yaml:"name"`
	Metadata Metadata `yaml:"metadata"`
	Pipeline []Step   `yaml:"pipeline"`
}

// Independent reports whether the element declares no dependencies.
// This is a structural property of the element itself, unrelated to
// whether other elements depend on it.
func (e *Element) Independent() bool {
	return len(e.Metadata.Dependencies) == 0
}

// FactSource returns the element's declared data excluding the pipeline.
// The context engine flattens this into the read-only facts namespace;
// only primitive leaves survive flattening.
func (e *Element) FactSource() map[string]any {
	meta := map[string]any{
		"version": e.Metadata.Version,
	}
	if len(e.Metadata.Dependencies) > 0 {
		deps := make([]any, len(e.Metadata.Dependencies))
		for i, d := range e.Metadata.Dependencies {
			deps[i] = d
		}
		meta["dependencies"] = deps
	}
	return map[string]any{
		"name":     e.Name,
		"metadata": meta,
	}
}
