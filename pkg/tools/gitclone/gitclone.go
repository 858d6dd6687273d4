// Package gitclone implements the clone tool: it clones a git repository
// into the storage directory and publishes the checkout path for later
// steps.
package gitclone

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/execctx"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/tool"
)

// Name is the registered tool name
const Name = "clone"

type cloneTool struct{}

// New returns the clone tool
func New() tool.Tool {
	return &cloneTool{}
}

func (t *cloneTool) Name() string { return Name }

func (t *cloneTool) Schema() *tool.Schema {
	return &tool.Schema{Fields: map[string]tool.FieldSpec{
		"repo":         {Kind: tool.KindString, Required: true},
		"dir":          {Kind: tool.KindString},
		"outputAssign": {Kind: tool.KindString, Assign: true},
	}}
}

func (t *cloneTool) Execute(ctx context.Context, req *tool.Request) error {
	logger := logging.GetLogger("tool.clone")

	repo := tool.StringParam(req.Params, "repo", "")
	dir := tool.StringParam(req.Params, "dir", deriveDir(repo))
	target := filepath.Join(req.StorageDir, dir)

	if _, err := os.Stat(target); err == nil {
		logger.Info().Str("target", target).Msg("Checkout already present, skipping clone")
	} else {
		logger.Info().Str("repo", repo).Str("target", target).Msg("Cloning repository")

		cmd := exec.CommandContext(ctx, "git", "clone", repo, target)
		cmd.Env = req.Env
		out, err := cmd.CombinedOutput()
		if err != nil {
			return errors.Wrapf(err, errors.ErrToolExecute,
				"git clone of %s failed: %s", repo, strings.TrimSpace(string(out)))
		}
	}

	if assign, ok := req.Params["outputAssign"].(string); ok {
		path, ok := execctx.ParseAssignment(assign)
		if !ok {
			return errors.Newf(errors.ErrToolParams,
				"outputAssign must be an assignment expression, got %q", assign)
		}
		if err := req.Context.Set(path, target); err != nil {
			return err
		}
	}

	return nil
}

// deriveDir extracts a checkout directory name from the repository URL
func deriveDir(repo string) string {
	base := repo
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".git")
	if base == "" {
		base = "checkout"
	}
	return base
}
