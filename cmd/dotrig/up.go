package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dotrig/dotrig/pkg/executor"
	"github.com/dotrig/dotrig/pkg/tool"
	"github.com/dotrig/dotrig/pkg/tools"
)

func newUpCmd() *cobra.Command {
	var (
		elementsDir string
		dryRun      bool
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run the provisioning pipeline",
		Long: `Load every element descriptor, resolve the dependency graph and execute
all pipelines: independent elements in parallel, the rest sequentially in
topological order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, elements, err := setup(elementsDir)
			if err != nil {
				return err
			}
			if workers < 1 {
				workers = cfg.Workers
			}

			exec := executor.New(executor.Options{
				Registry:   tools.DefaultRegistry(),
				Workers:    workers,
				StorageDir: p.StorageDir(),
				LockPath:   p.LockFilePath(),
				Env:        tool.FilterEnv(os.Environ()),
			})

			if dryRun {
				order, parallel, sequential, err := exec.Plan(elements)
				if err != nil {
					return err
				}
				pterm.DefaultSection.Println("Execution plan")
				for _, el := range parallel {
					pterm.Info.Printfln("%s (parallel, up to %d workers)", el.Name, workers)
				}
				for _, el := range sequential {
					pterm.Info.Printfln("%s (sequential)", el.Name)
				}
				pterm.Printfln("%d elements, nothing executed", len(order))
				return nil
			}

			result, runErr := exec.Run(cmd.Context(), elements)
			if result == nil {
				return runErr
			}

			pterm.DefaultSection.Printfln("Run %s", result.RunID)
			for _, res := range result.Results {
				switch res.Status {
				case executor.StatusSucceeded:
					pterm.Success.Printfln("%s", res.Name)
				case executor.StatusSkipped:
					pterm.Warning.Printfln("%s (skipped)", res.Name)
				case executor.StatusFailed:
					pterm.Error.Printfln("%s: %v", res.Name, res.Err)
				}
			}

			if runErr != nil {
				return fmt.Errorf("run aborted")
			}
			pterm.Success.Printfln("All %d elements provisioned", len(result.Results))
			return nil
		},
	}

	cmd.Flags().StringVar(&elementsDir, "elements-dir", "", "Directory containing element descriptors")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and plan without executing")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers for independent elements (overrides config)")

	return cmd
}
