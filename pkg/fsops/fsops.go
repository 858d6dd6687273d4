// Package fsops executes filesystem operations through a synthfs pipeline.
// Tools that install files (the link tool in particular) describe what they
// want as Op values; fsops converts them into synthfs operations and runs
// them as one batch so partial installs fail loudly instead of silently.
package fsops

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/rs/zerolog"
)

// OpKind discriminates filesystem operations
type OpKind string

const (
	OpSymlink   OpKind = "symlink"
	OpCopy      OpKind = "copy"
	OpCreateDir OpKind = "create-dir"
)

// Op is one requested filesystem change. Source is unused for OpCreateDir.
type Op struct {
	Kind   OpKind
	Source string
	Target string
}

// Executor runs batches of filesystem operations
type Executor struct {
	logger     zerolog.Logger
	filesystem synthfs.FileSystem
}

// NewExecutor creates an executor rooted at the real filesystem
func NewExecutor() *Executor {
	return &Executor{
		logger:     logging.GetLogger("fsops"),
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// Execute converts ops into a synthfs pipeline and runs it
func (e *Executor) Execute(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		synthOp, err := e.convert(op)
		if err != nil {
			return err
		}
		if err := pipeline.Add(synthOp); err != nil {
			return errors.Wrapf(err, errors.ErrToolExecute,
				"failed to add %s operation for %s", op.Kind, op.Target)
		}
	}

	e.logger.Debug().Int("operationCount", len(ops)).Msg("Executing filesystem operations")

	executor := synthfs.NewExecutor()
	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		return errors.Wrap(result.GetError(), errors.ErrToolExecute,
			"filesystem operations failed")
	}
	return nil
}

func (e *Executor) convert(op Op) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s operation requires a target", op.Kind)
	}

	// synthfs paths are relative to the filesystem root
	relTarget, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", op.Target)
	}

	switch op.Kind {
	case OpCreateDir:
		opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
		createOp := operations.NewCreateDirectoryOperation(opID, relTarget)
		createOp.SetItem(&directoryItem{path: relTarget, mode: 0755})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case OpSymlink:
		relSource, err := e.relSource(op)
		if err != nil {
			return nil, err
		}
		opID := core.OperationID(fmt.Sprintf("symlink-%s", op.Target))
		symlinkOp := operations.NewCreateSymlinkOperation(opID, relTarget)
		symlinkOp.SetDescriptionDetail("target", relSource)
		symlinkOp.SetItem(&symlinkItem{path: relTarget, target: relSource})
		return synthfs.NewOperationsPackageAdapter(symlinkOp), nil

	case OpCopy:
		relSource, err := e.relSource(op)
		if err != nil {
			return nil, err
		}
		opID := core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(op.Source), op.Target))
		copyOp := operations.NewCopyOperation(opID, relTarget)
		copyOp.SetPaths(relSource, relTarget)
		return synthfs.NewOperationsPackageAdapter(copyOp), nil

	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown filesystem operation kind %q", op.Kind)
	}
}

func (e *Executor) relSource(op Op) (string, error) {
	if op.Source == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "%s operation requires a source", op.Kind)
	}
	relSource, err := filepath.Rel("/", op.Source)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert source path: %s", op.Source)
	}
	return relSource, nil
}

// Item types for synthfs operations

type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }

type symlinkItem struct {
	path   string
	target string
}

func (s *symlinkItem) Path() string   { return s.path }
func (s *symlinkItem) Type() string   { return "symlink" }
func (s *symlinkItem) Target() string { return s.target }
