package element

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"gopkg.in/yaml.v3"
)

// LoadDir loads every element descriptor (*.yaml, *.yml) found directly in
// dir. Files are processed in lexical order so that downstream discovery
// order, and with it the resolver's tie-break order, is deterministic.
func LoadDir(dir string) ([]*Element, error) {
	logger := logging.GetLogger("element.loader")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrElementLoad, "failed to read elements directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	elements := make([]*Element, 0, len(files))
	for _, file := range files {
		el, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("file", file).Str("element", el.Name).Msg("Loaded element descriptor")
		elements = append(elements, el)
	}

	return elements, nil
}

// LoadFile loads a single element descriptor
func LoadFile(path string) (*Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrElementLoad, "failed to read descriptor %s", path)
	}

	el, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrElementParse, "invalid descriptor %s", path)
	}
	return el, nil
}

// Parse unmarshals one element descriptor, normalizes hyphenated keys inside
// step parameter blocks to camelCase, and validates structural requirements.
func Parse(data []byte) (*Element, error) {
	var el Element
	if err := yaml.Unmarshal(data, &el); err != nil {
		return nil, errors.Wrap(err, errors.ErrElementParse, "yaml parse failed")
	}

	if el.Name == "" {
		return nil, errors.New(errors.ErrElementInvalid, "element name must not be empty")
	}
	if len(el.Pipeline) == 0 {
		return nil, errors.Newf(errors.ErrElementInvalid, "element %q has an empty pipeline", el.Name)
	}

	for i := range el.Pipeline {
		step := &el.Pipeline[i]
		if step.Tool == "" {
			return nil, errors.Newf(errors.ErrElementInvalid, "element %q step %d is missing a tool name", el.Name, i)
		}
		if step.With == nil {
			step.With = map[string]any{}
		}
		step.With = normalizeKeys(step.With)
	}

	return &el, nil
}

// normalizeKeys converts hyphenated map keys to camelCase, recursively.
// External descriptors use hyphenated form; the context engine and the
// tools consume camelCase.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[hyphenToCamel(k)] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeKeys(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func hyphenToCamel(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}
	parts := strings.Split(key, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
