// Package link implements the link tool: it installs a file or directory
// into place, either as a symlink back to the managed source or as a copy.
package link

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/fsops"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/tool"
)

// Name is the registered tool name
const Name = "link"

type linkTool struct {
	executor *fsops.Executor
}

// New returns the link tool
func New() tool.Tool {
	return &linkTool{executor: fsops.NewExecutor()}
}

func (t *linkTool) Name() string { return Name }

func (t *linkTool) Schema() *tool.Schema {
	return &tool.Schema{Fields: map[string]tool.FieldSpec{
		"source": {Kind: tool.KindString, Required: true},
		"target": {Kind: tool.KindString, Required: true},
		"mode":   {Kind: tool.KindString},
		"force":  {Kind: tool.KindBool},
	}}
}

func (t *linkTool) Execute(ctx context.Context, req *tool.Request) error {
	logger := logging.GetLogger("tool.link")

	source := resolveSource(tool.StringParam(req.Params, "source", ""), req.StorageDir)
	target := expandHome(tool.StringParam(req.Params, "target", ""))
	mode := tool.StringParam(req.Params, "mode", "symlink")
	force := tool.BoolParam(req.Params, "force", false)

	ops, err := buildOps(source, target, mode)
	if err != nil {
		return err
	}

	if _, err := os.Lstat(source); err != nil {
		return errors.Wrapf(err, errors.ErrToolParams, "link source does not exist: %s", source)
	}

	if info, err := os.Lstat(target); err == nil {
		if !force {
			// an existing symlink already pointing at the source is fine
			if info.Mode()&os.ModeSymlink != 0 {
				if dest, err := os.Readlink(target); err == nil && dest == source {
					logger.Debug().Str("target", target).Msg("Link already in place")
					return nil
				}
			}
			return errors.Newf(errors.ErrToolExecute,
				"target %s already exists (set force to replace it)", target)
		}
		if err := os.Remove(target); err != nil {
			return errors.Wrapf(err, errors.ErrToolExecute, "failed to replace target %s", target)
		}
	}

	logger.Info().Str("source", source).Str("target", target).Str("mode", mode).
		Msg("Installing file")

	return t.executor.Execute(ctx, ops)
}

// buildOps turns a link request into the filesystem operation batch: parent
// directory creation followed by the symlink or copy itself.
func buildOps(source, target, mode string) ([]fsops.Op, error) {
	if source == "" {
		return nil, errors.New(errors.ErrToolParams, "link requires a source")
	}
	if target == "" {
		return nil, errors.New(errors.ErrToolParams, "link requires a target")
	}

	var kind fsops.OpKind
	switch mode {
	case "symlink", "":
		kind = fsops.OpSymlink
	case "copy":
		kind = fsops.OpCopy
	default:
		return nil, errors.Newf(errors.ErrToolParams,
			"link mode must be symlink or copy, got %q", mode)
	}

	return []fsops.Op{
		{Kind: fsops.OpCreateDir, Target: filepath.Dir(target)},
		{Kind: kind, Source: source, Target: target},
	}, nil
}

// resolveSource anchors relative sources at the storage directory, where the
// clone tool places checkouts.
func resolveSource(source, storageDir string) string {
	source = expandHome(source)
	if source == "" || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(storageDir, source)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
