package execctx

import (
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTemplateRoundTrip(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("ctx.x", "v"))

	out, err := c.ProcessTemplate("${{ ctx.x }}")
	require.NoError(t, err)
	assert.Equal(t, "v", out)
}

func TestProcessTemplateFactsLookup(t *testing.T) {
	c := New(map[string]any{
		"name":     "tmux",
		"metadata": map[string]any{"version": "3.4"},
	})

	out, err := c.ProcessTemplate("installing ${{ name }} v${{ metadata.version }}")
	require.NoError(t, err)
	assert.Equal(t, "installing tmux v3.4", out)
}

func TestProcessTemplateMultipleOccurrences(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("a", "1"))
	require.NoError(t, c.Set("b", "2"))

	out, err := c.ProcessTemplate("${{ a }}-${{ b }}-${{ a }}")
	require.NoError(t, err)
	assert.Equal(t, "1-2-1", out)
}

func TestProcessTemplateStringifiesPrimitives(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("count", 3))
	require.NoError(t, c.Set("ratio", 2.5))
	require.NoError(t, c.Set("enabled", true))
	require.NoError(t, c.Set("missing", nil))

	out, err := c.ProcessTemplate("${{ count }} ${{ ratio }} ${{ enabled }} ${{ missing }}")
	require.NoError(t, err)
	assert.Equal(t, "3 2.5 true null", out)
}

func TestProcessTemplateUnresolved(t *testing.T) {
	c := New(nil)

	_, err := c.ProcessTemplate("${{ ghost.path }}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateUnresolved))
}

func TestProcessTemplateNonPrimitive(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("obj.inner", "v"))

	_, err := c.ProcessTemplate("${{ obj }}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNonPrimitive))
}

func TestProcessTemplateInvalidSegment(t *testing.T) {
	c := New(nil)

	_, err := c.ProcessTemplate("${{ Bad.Segment }}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrKeySyntax))
}

func TestProcessTemplateNoMarkers(t *testing.T) {
	c := New(nil)

	out, err := c.ProcessTemplate("plain string, no markers")
	require.NoError(t, err)
	assert.Equal(t, "plain string, no markers", out)
}

func TestAssignmentExpressionPassthrough(t *testing.T) {
	c := New(nil)

	for _, s := range []string{"$>{{ ctx.out }}", "$>{{ctx.out}}", "$>{{  cloneDir  }}"} {
		out, err := c.ProcessTemplate(s)
		require.NoError(t, err)
		assert.Equal(t, s, out, "assignment expressions must pass through unchanged")
	}
}

func TestParseAssignment(t *testing.T) {
	path, ok := ParseAssignment("$>{{ ctx.out }}")
	require.True(t, ok)
	assert.Equal(t, "ctx.out", path)

	_, ok = ParseAssignment("${{ ctx.out }}")
	assert.False(t, ok)

	// embedded in a longer string it is not an assignment expression
	_, ok = ParseAssignment("prefix $>{{ ctx.out }}")
	assert.False(t, ok)
}

func TestProcessObjectTemplate(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("dir", "/tmp/x"))

	in := map[string]any{
		"command": "ls ${{ dir }}",
		"count":   3,
		"nested": map[string]any{
			"path": "${{ dir }}/sub",
		},
		"list": []any{"${{ dir }}", true},
	}

	out, err := c.ProcessObjectTemplate(in)
	require.NoError(t, err)

	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ls /tmp/x", m["command"])
	assert.Equal(t, 3, m["count"])

	nested := m["nested"].(map[string]any)
	assert.Equal(t, "/tmp/x/sub", nested["path"])

	list := m["list"].([]any)
	assert.Equal(t, "/tmp/x", list[0])
	assert.Equal(t, true, list[1])

	// the input structure is untouched
	assert.Equal(t, "ls ${{ dir }}", in["command"])
}

func TestProcessObjectTemplatePropagatesErrors(t *testing.T) {
	c := New(nil)

	_, err := c.ProcessObjectTemplate(map[string]any{
		"deep": []any{map[string]any{"bad": "${{ missing }}"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateUnresolved))
}

func TestNamespaceConflictDefenseInDepth(t *testing.T) {
	c := New(map[string]any{"name": "x"})
	// bypass Set guards to simulate an invariant break
	c.vars["name"] = "shadow"
	c.assigned["name"] = true

	_, err := c.ProcessTemplate("${{ name }}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNamespaceConflict))
}

func TestVariablesSeenAcrossStepsWithinElement(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.Set("storageDir", "/data/storage"))
	require.NoError(t, c.Set("cloneDir", "/data/storage/nvim"))

	out, err := c.ProcessTemplate("cp ${{ cloneDir }}/init.lua ${{ storageDir }}/backup")
	require.NoError(t, err)
	assert.Equal(t, "cp /data/storage/nvim/init.lua /data/storage/backup", out)
}
