package tool

import (
	"context"
	"testing"

	"github.com/dotrig/dotrig/pkg/element"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name   string
	schema *Schema
}

func (f *fakeTool) Name() string    { return f.name }
func (f *fakeTool) Schema() *Schema { return f.schema }
func (f *fakeTool) Execute(ctx context.Context, req *Request) error {
	return nil
}

func testRegistry(t *testing.T) Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register("probe", &fakeTool{
		name: "probe",
		schema: &Schema{Fields: map[string]FieldSpec{
			"command":      {Kind: KindString, Required: true},
			"allowFailure": {Kind: KindBool},
			"prompts":      {Kind: KindList},
			"outputAssign": {Kind: KindString, Assign: true},
		}},
	}))
	return reg
}

func TestValidateStepAccepts(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "probe", With: map[string]any{
		"command":      "echo hi",
		"allowFailure": true,
		"outputAssign": "$>{{ out }}",
	}})
	assert.NoError(t, err)
}

func TestValidateStepUnknownTool(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "ghost", With: map[string]any{}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolNotFound))
	assert.Contains(t, err.Error(), "probe")
}

func TestValidateStepMissingRequired(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "probe", With: map[string]any{}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolParams))
	assert.Contains(t, err.Error(), `"command"`)
}

func TestValidateStepRejectsExtraField(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "probe", With: map[string]any{
		"command": "echo hi",
		"mystery": 1,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mystery"`)
}

func TestValidateStepKindMismatch(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "probe", With: map[string]any{
		"command":      "echo hi",
		"allowFailure": "yes",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boolean")
}

func TestValidateStepAssignField(t *testing.T) {
	reg := testRegistry(t)

	err := ValidateStep(reg, element.Step{Tool: "probe", With: map[string]any{
		"command":      "echo hi",
		"outputAssign": "${{ notAnAssignment }}",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignment expression")
}

func TestValidateElementWrapsStepIndex(t *testing.T) {
	reg := testRegistry(t)
	el := &element.Element{
		Name: "demo",
		Pipeline: []element.Step{
			{Tool: "probe", With: map[string]any{"command": "ok"}},
			{Tool: "probe", With: map[string]any{}},
		},
	}

	err := ValidateElement(reg, el)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `element "demo" step 1`)
}

func TestFilterEnv(t *testing.T) {
	in := []string{"PATH=/usr/bin", "EMPTY=", "NOEQ", "=weird", "HOME=/home/u"}
	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/home/u"}, FilterEnv(in))
}

func TestParamHelpers(t *testing.T) {
	params := map[string]any{"s": "v", "b": true}
	assert.Equal(t, "v", StringParam(params, "s", "d"))
	assert.Equal(t, "d", StringParam(params, "missing", "d"))
	assert.True(t, BoolParam(params, "b", false))
	assert.False(t, BoolParam(params, "missing", false))
}
