package main

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed docs/*.md
var topicsFS embed.FS

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics [topic]",
		Short: "Show extended documentation topics",
		Long:  "Without arguments, list the available topics. With a topic name, render it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := topicNames()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
				for _, name := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
				}
				return nil
			}

			name := args[0]
			content, err := topicsFS.ReadFile("docs/" + name + ".md")
			if err != nil {
				return fmt.Errorf("unknown topic %q, available: %s", name, strings.Join(names, ", "))
			}

			fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(string(content)))
			return nil
		},
	}
}

func topicNames() ([]string, error) {
	entries, err := topicsFS.ReadDir("docs")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when glamour cannot set up a renderer.
func renderMarkdown(content string) string {
	var options []glamour.TermRendererOption
	if stdoutIsTerminal() {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
