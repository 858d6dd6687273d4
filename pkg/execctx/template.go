package execctx

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dotrig/dotrig/pkg/errors"
)

var (
	// interpPattern matches ${{ path }} interpolation markers
	interpPattern = regexp.MustCompile(`\$\{\{\s*([\w.]+)\s*\}\}`)

	// assignPattern matches a string that is exactly an output-binding
	// marker $>{{ path }}. Assignment expressions are never expanded.
	assignPattern = regexp.MustCompile(`^\$>\{\{\s*([\w.]+)\s*\}\}$`)
)

// IsAssignment reports whether s is exactly an assignment expression
func IsAssignment(s string) bool {
	return assignPattern.MatchString(s)
}

// ParseAssignment extracts the variables path named by an assignment
// expression. The second return value is false when s is not one.
func ParseAssignment(s string) (string, bool) {
	m := assignPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ProcessTemplate expands every ${{ path }} occurrence in str against the
// merged context in a single left-to-right pass. Assignment expressions pass
// through untouched. Resolution fails for unresolved paths and for values
// that are not primitives.
func (c *Context) ProcessTemplate(str string) (string, error) {
	if IsAssignment(str) {
		return str, nil
	}

	if err := c.checkNamespaces(); err != nil {
		return "", err
	}

	var firstErr error
	result := interpPattern.ReplaceAllStringFunc(str, func(match string) string {
		if firstErr != nil {
			return match
		}
		path := interpPattern.FindStringSubmatch(match)[1]

		if _, err := splitPath(path); err != nil {
			firstErr = err
			return match
		}

		value, ok := c.resolve(path)
		if !ok {
			firstErr = errors.Newf(errors.ErrTemplateUnresolved,
				"template references undefined path %q", path)
			return match
		}
		if !isPrimitive(value) {
			firstErr = errors.Newf(errors.ErrTemplateNonPrimitive,
				"template path %q resolves to a non-primitive value", path)
			return match
		}
		return stringify(value)
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// ProcessObjectTemplate applies ProcessTemplate to every string found
// anywhere in an arbitrarily nested structure and returns a structurally
// equal copy. Non-string primitives pass through untouched.
func (c *Context) ProcessObjectTemplate(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return c.ProcessTemplate(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			processed, err := c.ProcessObjectTemplate(item)
			if err != nil {
				return nil, err
			}
			out[key] = processed
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			processed, err := c.ProcessObjectTemplate(item)
			if err != nil {
				return nil, err
			}
			out[i] = processed
		}
		return out, nil
	default:
		return value, nil
	}
}

// checkNamespaces re-verifies that no variables path collides with a facts
// path. Set guards make this unreachable; a hit means an invariant broke and
// template resolution must not silently shadow.
func (c *Context) checkNamespaces() error {
	for path := range c.assigned {
		if _, ok := c.facts[path]; ok {
			return errors.Newf(errors.ErrNamespaceConflict,
				"variables path %q collides with read-only facts path", path)
		}
	}
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FactPaths returns the flattened facts paths, mainly for diagnostics
func (c *Context) FactPaths() []string {
	paths := make([]string, 0, len(c.facts))
	for path := range c.facts {
		paths = append(paths, path)
	}
	return paths
}

// AssignedPaths returns every variables path written so far
func (c *Context) AssignedPaths() []string {
	paths := make([]string, 0, len(c.assigned))
	for path := range c.assigned {
		paths = append(paths, path)
	}
	return paths
}

// Fact returns the primitive fact stored at the flattened dot-path
func (c *Context) Fact(path string) (any, bool) {
	v, ok := c.facts[path]
	return v, ok
}
