package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dotrig/dotrig/internal/version"
	"github.com/dotrig/dotrig/pkg/config"
	"github.com/dotrig/dotrig/pkg/element"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/paths"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "dotrig",
		Short: "A declarative machine provisioning engine",
		Long: `dotrig provisions a development machine from declarative element
descriptors: each element names the elements it depends on and an ordered
pipeline of tool steps. dotrig resolves the dependency graph, runs
independent elements in parallel and the rest in topological order.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newUpCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup resolves paths, configuration and the loaded element set shared by
// every command that reads descriptors.
func setup(elementsDir string) (*paths.Paths, *config.Config, []*element.Element, error) {
	p, err := paths.New("")
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.LoadDefault(p)
	if err != nil {
		return nil, nil, nil, err
	}

	if cfg.StorageDir != "" {
		if p, err = paths.New(cfg.StorageDir); err != nil {
			return nil, nil, nil, err
		}
	}

	dir := elementsDir
	if dir == "" {
		dir = cfg.ElementsDir
	}
	if dir == "" {
		dir = p.DefaultElementsDir()
	}

	elements, err := element.LoadDir(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	return p, cfg, elements, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dotrig version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
