package link

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/execctx"
	"github.com/dotrig/dotrig/pkg/fsops"
	"github.com/dotrig/dotrig/pkg/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOps(t *testing.T) {
	ops, err := buildOps("/src/vimrc", "/home/user/.vimrc", "symlink")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, fsops.Op{Kind: fsops.OpCreateDir, Target: "/home/user"}, ops[0])
	assert.Equal(t, fsops.Op{Kind: fsops.OpSymlink, Source: "/src/vimrc", Target: "/home/user/.vimrc"}, ops[1])

	ops, err = buildOps("/src/vimrc", "/home/user/.vimrc", "copy")
	require.NoError(t, err)
	assert.Equal(t, fsops.OpCopy, ops[1].Kind)

	// empty mode defaults to symlink
	ops, err = buildOps("/src/vimrc", "/home/user/.vimrc", "")
	require.NoError(t, err)
	assert.Equal(t, fsops.OpSymlink, ops[1].Kind)

	_, err = buildOps("/src/vimrc", "/home/user/.vimrc", "hardlink")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolParams))

	_, err = buildOps("", "/home/user/.vimrc", "symlink")
	assert.Error(t, err)

	_, err = buildOps("/src/vimrc", "", "symlink")
	assert.Error(t, err)
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, "/abs/path", resolveSource("/abs/path", "/storage"))
	assert.Equal(t, "/storage/dotfiles/vimrc", resolveSource("dotfiles/vimrc", "/storage"))
	assert.Equal(t, "", resolveSource("", "/storage"))
}

func TestSchemaRejectsUnknownMode(t *testing.T) {
	// mode values are validated at execution, but unknown fields fail schema
	err := New().Schema().Validate(Name, map[string]any{
		"source": "a", "target": "b", "unknown": "c",
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolParams))
}

func newRequest(params map[string]any, storageDir string) *tool.Request {
	return &tool.Request{
		Params:     params,
		Context:    execctx.New(nil),
		Env:        nil,
		StorageDir: storageDir,
	}
}

func TestExecuteSymlink(t *testing.T) {
	storage := t.TempDir()
	home := t.TempDir()

	source := filepath.Join(storage, "checkout", "vimrc")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0755))
	require.NoError(t, os.WriteFile(source, []byte("set nocompatible\n"), 0644))

	target := filepath.Join(home, "rc", ".vimrc")
	req := newRequest(map[string]any{
		"source": "checkout/vimrc",
		"target": target,
	}, storage)

	require.NoError(t, New().Execute(context.Background(), req))

	dest, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, source, dest)

	// second run is a no-op because the link is already in place
	assert.NoError(t, New().Execute(context.Background(), req))
}

func TestExecuteCopy(t *testing.T) {
	storage := t.TempDir()
	home := t.TempDir()

	source := filepath.Join(storage, "gitconfig")
	require.NoError(t, os.WriteFile(source, []byte("[user]\n\tname = test\n"), 0644))

	target := filepath.Join(home, "config", ".gitconfig")
	req := newRequest(map[string]any{
		"source": source,
		"target": target,
		"mode":   "copy",
	}, storage)

	require.NoError(t, New().Execute(context.Background(), req))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name = test")
}

func TestExecuteExistingTarget(t *testing.T) {
	storage := t.TempDir()
	home := t.TempDir()

	source := filepath.Join(storage, "profile")
	require.NoError(t, os.WriteFile(source, []byte("new\n"), 0644))

	target := filepath.Join(home, ".profile")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0644))

	req := newRequest(map[string]any{"source": source, "target": target}, storage)
	err := New().Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolExecute))

	// force replaces the stale file
	req = newRequest(map[string]any{"source": source, "target": target, "force": true}, storage)
	require.NoError(t, New().Execute(context.Background(), req))

	dest, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, source, dest)
}

func TestExecuteMissingSource(t *testing.T) {
	storage := t.TempDir()
	req := newRequest(map[string]any{
		"source": filepath.Join(storage, "absent"),
		"target": filepath.Join(t.TempDir(), ".absent"),
	}, storage)

	err := New().Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolParams))
}
