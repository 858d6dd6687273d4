package tool

import (
	"strings"

	"github.com/dotrig/dotrig/pkg/element"
	"github.com/dotrig/dotrig/pkg/errors"
)

// ValidateStep structurally validates one pipeline step against the active
// registry: the tool name must be registered (the discriminator), and the
// with-block must conform to exactly that tool's schema. No other shape is
// valid.
func ValidateStep(reg Registry, step element.Step) error {
	t, err := reg.Get(step.Tool)
	if err != nil {
		return errors.Newf(errors.ErrToolNotFound,
			"unknown tool %q, registered tools: %s", step.Tool, strings.Join(reg.List(), ", "))
	}
	return t.Schema().Validate(step.Tool, step.With)
}

// ValidateElement validates every step of an element
func ValidateElement(reg Registry, el *element.Element) error {
	for i, step := range el.Pipeline {
		if err := ValidateStep(reg, step); err != nil {
			return errors.Wrapf(err, errors.ErrElementInvalid,
				"element %q step %d", el.Name, i)
		}
	}
	return nil
}
