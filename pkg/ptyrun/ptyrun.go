// Package ptyrun runs a command attached to a pseudo-terminal so that
// interactive prompts can be observed in the live output and answered
// automatically. It exists for tools that drive installers and setup
// scripts which refuse to read answers from a plain pipe.
package ptyrun

import (
	"context"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
)

// Options describes one automated terminal session. Env must be an
// explicit, already-filtered environment snapshot; ptyrun never reads the
// ambient process environment.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
	Prompts []Prompt

	// FatalExit makes a non-zero exit code fail the run. When unset, a
	// non-zero exit only logs a warning and the captured output is still
	// returned.
	FatalExit bool
}

// Run executes the command on a pseudo-terminal, answers prompts in order
// as they appear, and returns the full raw output once the process exits.
func Run(ctx context.Context, opts Options) (string, error) {
	logger := logging.GetLogger("ptyrun")

	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPtySpawn,
			"failed to start %q on a pseudo-terminal", opts.Command)
	}
	defer func() { _ = ptmx.Close() }()

	// Fixed size keeps automated output deterministic regardless of the
	// invoking terminal.
	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80})

	matcher := newPromptMatcher(opts.Prompts)

	buf := make([]byte, 4096)
	for {
		n, readErr := ptmx.Read(buf)
		if n > 0 {
			for _, response := range matcher.feed(string(buf[:n])) {
				if !strings.HasSuffix(response, "\n") {
					response += "\n"
				}
				if _, err := ptmx.WriteString(response); err != nil {
					logger.Warn().Err(err).Msg("Failed to write prompt response")
				}
			}
		}
		if readErr != nil {
			// the pty master reports EIO when the child side closes;
			// either way the session is over
			break
		}
	}

	raw := matcher.Raw()
	waitErr := cmd.Wait()
	if waitErr == nil {
		return raw, nil
	}

	exitErr, ok := waitErr.(*exec.ExitError)
	if !ok {
		return raw, errors.Wrapf(waitErr, errors.ErrPtyExit,
			"command %q failed", opts.Command)
	}

	code := exitErr.ExitCode()
	if opts.FatalExit {
		return raw, errors.Newf(errors.ErrPtyExit,
			"command %q exited with code %d", opts.Command, code)
	}

	logger.Warn().
		Str("command", opts.Command).
		Int("exitCode", code).
		Msg("Command exited non-zero, continuing per policy")
	return raw, nil
}
