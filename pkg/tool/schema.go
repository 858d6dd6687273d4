package tool

import (
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/execctx"
)

// ParamKind is the structural type expected for a parameter value
type ParamKind int

const (
	KindString ParamKind = iota
	KindBool
	KindList
	KindObject
)

// FieldSpec describes one with-block parameter
type FieldSpec struct {
	Kind     ParamKind
	Required bool

	// Assign marks output-binding fields: the value must be exactly an
	// assignment expression naming the variables path to populate.
	Assign bool
}

// Schema is a JSON-Schema-like structural description of a tool's
// parameters. Required fields may not be omitted and unknown fields are
// rejected.
type Schema struct {
	Fields map[string]FieldSpec
}

// Validate checks params against the schema. toolName only feeds error
// messages.
func (s *Schema) Validate(toolName string, params map[string]any) error {
	for name, spec := range s.Fields {
		value, present := params[name]
		if !present {
			if spec.Required {
				return errors.Newf(errors.ErrToolParams,
					"tool %q requires parameter %q", toolName, name).
					WithDetail("tool", toolName).WithDetail("field", name)
			}
			continue
		}
		if err := checkKind(toolName, name, spec, value); err != nil {
			return err
		}
	}

	for name := range params {
		if _, known := s.Fields[name]; !known {
			return errors.Newf(errors.ErrToolParams,
				"tool %q does not accept parameter %q", toolName, name).
				WithDetail("tool", toolName).WithDetail("field", name)
		}
	}

	return nil
}

func checkKind(toolName, name string, spec FieldSpec, value any) error {
	mismatch := func(want string) error {
		return errors.Newf(errors.ErrToolParams,
			"tool %q parameter %q must be a %s", toolName, name, want).
			WithDetail("tool", toolName).WithDetail("field", name)
	}

	switch spec.Kind {
	case KindString:
		str, ok := value.(string)
		if !ok {
			return mismatch("string")
		}
		if spec.Assign {
			if _, ok := execctx.ParseAssignment(str); !ok {
				return errors.Newf(errors.ErrToolParams,
					"tool %q parameter %q must be an assignment expression like $>{{ path }}", toolName, name)
			}
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return mismatch("boolean")
		}
	case KindList:
		if _, ok := value.([]any); !ok {
			return mismatch("list")
		}
	case KindObject:
		if _, ok := value.(map[string]any); !ok {
			return mismatch("object")
		}
	}
	return nil
}
