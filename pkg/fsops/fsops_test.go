package fsops

import (
	"context"
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteEmptyBatch(t *testing.T) {
	e := NewExecutor()
	assert.NoError(t, e.Execute(context.Background(), nil))
}

func TestExecuteRejectsMissingTarget(t *testing.T) {
	e := NewExecutor()
	err := e.Execute(context.Background(), []Op{{Kind: OpSymlink, Source: "/tmp/src"}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExecuteRejectsMissingSource(t *testing.T) {
	e := NewExecutor()
	err := e.Execute(context.Background(), []Op{{Kind: OpCopy, Target: "/tmp/dst"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a source")
}

func TestExecuteRejectsUnknownKind(t *testing.T) {
	e := NewExecutor()
	err := e.Execute(context.Background(), []Op{{Kind: "truncate", Source: "/a", Target: "/b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filesystem operation kind")
}
