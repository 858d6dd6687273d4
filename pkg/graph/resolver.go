// Package graph builds the dependency graph over loaded elements and
// derives a deterministic execution order from it. All violations are fatal
// to the whole run: nothing executes when the resolver reports an error.
package graph

import (
	"strings"

	"github.com/dotrig/dotrig/pkg/element"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
)

// Resolver holds the validated dependency graph. Nodes are element names;
// an edge dep→dependent exists for every declared dependency.
type Resolver struct {
	elements []*element.Element
	byName   map[string]*element.Element

	// deps and dependents keep declaration/discovery order so the
	// topological sort tie-breaks deterministically.
	deps       map[string][]string
	dependents map[string][]string
}

// New validates the element set and constructs the graph. It rejects
// duplicate element names, self-dependencies and references to elements
// that were not loaded.
func New(elements []*element.Element) (*Resolver, error) {
	r := &Resolver{
		elements:   elements,
		byName:     make(map[string]*element.Element, len(elements)),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}

	for _, el := range elements {
		if _, exists := r.byName[el.Name]; exists {
			return nil, errors.Newf(errors.ErrDuplicateElement,
				"duplicate element name %q", el.Name)
		}
		r.byName[el.Name] = el
	}

	for _, el := range elements {
		seen := make(map[string]bool)
		for _, dep := range el.Metadata.Dependencies {
			if dep == el.Name {
				return nil, errors.Newf(errors.ErrSelfDependency,
					"element %q depends on itself", el.Name)
			}
			if _, ok := r.byName[dep]; !ok {
				return nil, errors.Newf(errors.ErrMissingDependency,
					"element %q depends on unknown element %q", el.Name, dep)
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			r.deps[el.Name] = append(r.deps[el.Name], dep)
			r.dependents[dep] = append(r.dependents[dep], el.Name)
		}
	}

	return r, nil
}

// ExecutionOrder performs a Kahn-style topological sort and returns every
// element exactly once, dependencies strictly before dependents. Ties break
// by discovery order: the original element list order, and declaration
// order of edges. A cycle fails with a DEPENDENCY_CYCLE error naming the
// loop.
func (r *Resolver) ExecutionOrder() ([]*element.Element, error) {
	logger := logging.GetLogger("graph.resolver")

	inDegree := make(map[string]int, len(r.elements))
	for _, el := range r.elements {
		inDegree[el.Name] = len(r.deps[el.Name])
	}

	var queue []string
	for _, el := range r.elements {
		if inDegree[el.Name] == 0 {
			queue = append(queue, el.Name)
		}
	}

	order := make([]*element.Element, 0, len(r.elements))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, r.byName[name])

		for _, dependent := range r.dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) < len(r.elements) {
		cycle := r.findCycle()
		return nil, errors.Newf(errors.ErrDependencyCycle,
			"dependency cycle detected: %s", strings.Join(cycle, " -> "))
	}

	names := make([]string, len(order))
	for i, el := range order {
		names[i] = el.Name
	}
	logger.Debug().Strs("order", names).Msg("Resolved execution order")

	return order, nil
}

// Independent returns the elements that declare no dependencies, in original
// list order. They are eligible for parallel execution.
func (r *Resolver) Independent() []*element.Element {
	var out []*element.Element
	for _, el := range r.elements {
		if el.Independent() {
			out = append(out, el)
		}
	}
	return out
}

// Element returns the loaded element with the given name
func (r *Resolver) Element(name string) (*element.Element, bool) {
	el, ok := r.byName[name]
	return el, ok
}

// findCycle runs a depth-first search tracking the recursion stack and
// returns the first cycle found as the ordered element names forming the
// loop, closing node repeated.
func (r *Resolver) findCycle() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		visited[name] = true
		onStack[name] = true
		path = append(path, name)

		for _, dependent := range r.dependents[name] {
			if onStack[dependent] {
				// back-edge: slice the loop out of the current path
				start := 0
				for i, n := range path {
					if n == dependent {
						start = i
						break
					}
				}
				cycle = append(append([]string{}, path[start:]...), dependent)
				return true
			}
			if !visited[dependent] && visit(dependent) {
				return true
			}
		}

		onStack[name] = false
		path = path[:len(path)-1]
		return false
	}

	for _, el := range r.elements {
		if !visited[el.Name] && visit(el.Name) {
			return cycle
		}
	}
	return nil
}
