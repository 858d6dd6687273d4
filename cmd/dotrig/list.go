package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dotrig/dotrig/pkg/element"
)

var (
	listNameStyle = lipgloss.NewStyle().Bold(true)
	listDepStyle  = lipgloss.NewStyle().Faint(true)
)

func newListCmd() *cobra.Command {
	var elementsDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded elements and their dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, elements, err := setup(elementsDir)
			if err != nil {
				return err
			}
			if len(elements) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no elements found")
				return nil
			}
			for _, el := range elements {
				fmt.Fprintln(cmd.OutOrStdout(), renderElement(el))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&elementsDir, "elements-dir", "", "Directory containing element descriptors")
	return cmd
}

func renderElement(el *element.Element) string {
	line := listNameStyle.Render(el.Name)
	if len(el.Metadata.Dependencies) > 0 {
		line += " " + listDepStyle.Render(
			fmt.Sprintf("(after %s)", strings.Join(el.Metadata.Dependencies, ", ")))
	}
	line += fmt.Sprintf("  %d steps", len(el.Pipeline))
	return line
}
