// Package execctx implements the per-element execution context: a read-only
// facts namespace derived from the element's own descriptor, and a
// write-once variables namespace populated by tool executions. The two
// namespaces are structurally disjoint and merge only for template
// resolution.
//
// Each context is owned exclusively by one element's execution. Contexts are
// never shared across elements and do not survive a run.
package execctx

import (
	"regexp"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
)

// segmentPattern is the required camelCase identifier form of every
// dot-path segment, in facts and variables alike.
var segmentPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

// Context is the two-tier value store resolved by template expressions.
type Context struct {
	// facts maps flattened dot-paths to primitive leaves of the element
	// descriptor. Built once, never mutated.
	facts map[string]any

	// vars is the nested write-once variables tree.
	vars map[string]any

	// assigned records every full dot-path written through Set, enforcing
	// the write-once and structural-conflict rules.
	assigned map[string]bool
}

// New builds a context whose facts are the flattened primitive leaves of
// source. Nested maps recurse into dot-separated paths; arrays and any other
// non-primitive leaves are dropped.
func New(source map[string]any) *Context {
	c := &Context{
		facts:    make(map[string]any),
		vars:     make(map[string]any),
		assigned: make(map[string]bool),
	}
	flattenInto(c.facts, "", source)
	return c
}

func flattenInto(dst map[string]any, prefix string, value map[string]any) {
	for key, v := range value {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch nested := v.(type) {
		case map[string]any:
			flattenInto(dst, path, nested)
		default:
			if isPrimitive(v) {
				dst[path] = v
			}
		}
	}
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// Set stores value at the dot-path in the variables tree. A path may be
// written at most once per element run; writes whose path duplicates,
// prefixes or extends an existing variables path are rejected, as are
// writes colliding with any facts path.
func (c *Context) Set(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	if conflict := c.factsConflict(path); conflict != "" {
		return errors.Newf(errors.ErrReadOnlyConflict,
			"path %q conflicts with read-only value %q", path, conflict)
	}

	for existing := range c.assigned {
		if existing == path {
			return errors.Newf(errors.ErrDuplicateAssign, "duplicate assignment of path %q", path)
		}
		if strings.HasPrefix(existing, path+".") || strings.HasPrefix(path, existing+".") {
			return errors.Newf(errors.ErrDuplicateAssign,
				"path %q structurally conflicts with already assigned path %q", path, existing)
		}
	}

	node := c.vars
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	c.assigned[path] = true

	return nil
}

// Get traverses the variables tree by dot-path. The second return value
// reports presence; absence is not an error.
func (c *Context) Get(path string) (any, bool) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	return traverse(c.vars, segments)
}

// Has reports whether a variables dot-path has a value
func (c *Context) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// factsConflict returns the facts path that the given variables path would
// shadow, if any: an exact match, a prefix of a facts path, or an extension
// of one.
func (c *Context) factsConflict(path string) string {
	for fact := range c.facts {
		if fact == path ||
			strings.HasPrefix(fact, path+".") ||
			strings.HasPrefix(path, fact+".") {
			return fact
		}
	}
	return ""
}

// resolve performs the merged lookup used by template expansion: the literal
// key is tried against facts first, then the variables tree is traversed by
// dot-path.
func (c *Context) resolve(path string) (any, bool) {
	if v, ok := c.facts[path]; ok {
		return v, true
	}
	segments, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	return traverse(c.vars, segments)
}

func traverse(node map[string]any, segments []string) (any, bool) {
	var current any = node
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// splitPath validates and splits a dot-path into its segments
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New(errors.ErrKeySyntax, "empty path")
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if !segmentPattern.MatchString(segment) {
			return nil, errors.Newf(errors.ErrKeySyntax,
				"invalid path segment %q in %q: segments must be camelCase identifiers", segment, path)
		}
	}
	return segments, nil
}
