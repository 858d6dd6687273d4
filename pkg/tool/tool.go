// Package tool defines the contract every pipeline tool satisfies and the
// structural validation applied to pipeline steps before execution.
//
// A tool is identified by a unique name, exposes a parameter schema used to
// validate a step's with-block, and executes for side effects only: its
// outputs are published through context.Set for later steps of the same
// element.
package tool

import (
	"context"

	"github.com/dotrig/dotrig/pkg/execctx"
	"github.com/dotrig/dotrig/pkg/registry"
)

// Tool is one pluggable pipeline step implementation
type Tool interface {
	// Name returns the unique tool name used in step descriptors
	Name() string

	// Schema describes the accepted with-block parameters
	Schema() *Schema

	// Execute runs the tool. Parameters arrive template-expanded; outputs
	// are published via req.Context.Set.
	Execute(ctx context.Context, req *Request) error
}

// Request carries everything a tool execution may touch. The environment is
// an explicit, pre-filtered snapshot: tools never read the ambient process
// environment themselves.
type Request struct {
	// Params is the step's with-block after template expansion
	Params map[string]any

	// Context is the executing element's context engine
	Context *execctx.Context

	// Env is the filtered environment snapshot for subprocess spawns
	Env []string

	// StorageDir is the resolved storage directory for this run
	StorageDir string
}

// Registry holds the active tool set. It is populated once at startup and
// read-only afterwards.
type Registry = registry.Registry[Tool]

// NewRegistry returns an empty tool registry
func NewRegistry() Registry {
	return registry.New[Tool]()
}
