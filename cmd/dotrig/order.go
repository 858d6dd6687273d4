package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/graph"
)

func newOrderCmd() *cobra.Command {
	var (
		elementsDir string
		graphmlPath string
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the resolved execution order",
		Long: `Resolve the dependency graph and print the order elements would execute
in. With --graphml the graph is also written as a GraphML document for
visualization tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, elements, err := setup(elementsDir)
			if err != nil {
				return err
			}

			resolver, err := graph.New(elements)
			if err != nil {
				return err
			}
			order, err := resolver.ExecutionOrder()
			if err != nil {
				return err
			}

			for i, el := range order {
				marker := ""
				if el.Independent() {
					marker = "  [parallel]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s%s\n", i+1, el.Name, marker)
			}

			if graphmlPath != "" {
				f, err := os.Create(graphmlPath)
				if err != nil {
					return errors.Wrapf(err, errors.ErrInternal, "failed to create %s", graphmlPath)
				}
				defer f.Close()
				if err := resolver.WriteGraphML(f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "graph written to %s\n", graphmlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&elementsDir, "elements-dir", "", "Directory containing element descriptors")
	cmd.Flags().StringVar(&graphmlPath, "graphml", "", "Write the dependency graph as GraphML to FILE")
	return cmd
}
