// Package tools wires the builtin tool set into a registry.
package tools

import (
	"github.com/dotrig/dotrig/pkg/registry"
	"github.com/dotrig/dotrig/pkg/tool"
	"github.com/dotrig/dotrig/pkg/tools/gitclone"
	"github.com/dotrig/dotrig/pkg/tools/link"
	"github.com/dotrig/dotrig/pkg/tools/runcmd"
)

// DefaultRegistry returns a registry holding every builtin tool.
func DefaultRegistry() tool.Registry {
	reg := tool.NewRegistry()
	registry.MustRegister(reg, runcmd.Name, runcmd.New())
	registry.MustRegister(reg, gitclone.Name, gitclone.New())
	registry.MustRegister(reg, link.Name, link.New())
	return reg
}
