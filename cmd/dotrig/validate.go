package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dotrig/dotrig/pkg/graph"
	"github.com/dotrig/dotrig/pkg/tool"
	"github.com/dotrig/dotrig/pkg/tools"
)

func newValidateCmd() *cobra.Command {
	var elementsDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate descriptors and the dependency graph without executing",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, elements, err := setup(elementsDir)
			if err != nil {
				return err
			}

			reg := tools.DefaultRegistry()
			for _, el := range elements {
				if err := tool.ValidateElement(reg, el); err != nil {
					return err
				}
			}

			resolver, err := graph.New(elements)
			if err != nil {
				return err
			}
			if _, err := resolver.ExecutionOrder(); err != nil {
				return err
			}

			pterm.Success.Printfln("%d elements valid", len(elements))
			return nil
		},
	}

	cmd.Flags().StringVar(&elementsDir, "elements-dir", "", "Directory containing element descriptors")
	return cmd
}
