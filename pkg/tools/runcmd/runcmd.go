// Package runcmd implements the run tool: it executes a shell command on a
// pseudo-terminal, optionally answering interactive prompts, and can publish
// the cleaned output as a context variable for later steps.
package runcmd

import (
	"context"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/execctx"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/ptyrun"
	"github.com/dotrig/dotrig/pkg/termtext"
	"github.com/dotrig/dotrig/pkg/tool"
)

// Name is the registered tool name
const Name = "run"

type runTool struct{}

// New returns the run tool
func New() tool.Tool {
	return &runTool{}
}

func (t *runTool) Name() string { return Name }

func (t *runTool) Schema() *tool.Schema {
	return &tool.Schema{Fields: map[string]tool.FieldSpec{
		"command":      {Kind: tool.KindString, Required: true},
		"workingDir":   {Kind: tool.KindString},
		"prompts":      {Kind: tool.KindList},
		"allowFailure": {Kind: tool.KindBool},
		"outputAssign": {Kind: tool.KindString, Assign: true},
	}}
}

func (t *runTool) Execute(ctx context.Context, req *tool.Request) error {
	logger := logging.GetLogger("tool.run")

	command := tool.StringParam(req.Params, "command", "")
	workingDir := tool.StringParam(req.Params, "workingDir", req.StorageDir)
	allowFailure := tool.BoolParam(req.Params, "allowFailure", false)

	prompts, err := parsePrompts(req.Params["prompts"])
	if err != nil {
		return err
	}

	logger.Info().Str("command", command).Str("workingDir", workingDir).Msg("Running command")

	output, err := ptyrun.Run(ctx, ptyrun.Options{
		Command:   "/bin/sh",
		Args:      []string{"-c", command},
		Dir:       workingDir,
		Env:       req.Env,
		Prompts:   prompts,
		FatalExit: !allowFailure,
	})
	if err != nil {
		return err
	}

	if assign, ok := req.Params["outputAssign"].(string); ok {
		path, ok := execctx.ParseAssignment(assign)
		if !ok {
			return errors.Newf(errors.ErrToolParams,
				"outputAssign must be an assignment expression, got %q", assign)
		}
		cleaned := strings.TrimRight(termtext.Clean(output), "\r\n")
		if err := req.Context.Set(path, cleaned); err != nil {
			return err
		}
	}

	return nil
}

// parsePrompts converts the prompts parameter into ordered prompt pairs.
// Each entry must be an object with string match and response fields.
func parsePrompts(raw any) ([]ptyrun.Prompt, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New(errors.ErrToolParams, "prompts must be a list")
	}

	prompts := make([]ptyrun.Prompt, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, errors.Newf(errors.ErrToolParams, "prompt %d must be an object", i)
		}
		match, ok := m["match"].(string)
		if !ok || match == "" {
			return nil, errors.Newf(errors.ErrToolParams, "prompt %d is missing a match string", i)
		}
		response, ok := m["response"].(string)
		if !ok {
			return nil, errors.Newf(errors.ErrToolParams, "prompt %d is missing a response string", i)
		}
		prompts = append(prompts, ptyrun.Prompt{Match: match, Response: response})
	}
	return prompts, nil
}
