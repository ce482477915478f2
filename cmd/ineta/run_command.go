package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ineta/internal/matching"
	"ineta/internal/pipeline"
	"ineta/internal/preflight"
	"ineta/internal/stage"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var steps string
	var runID string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run pipeline steps",
		Long: `Run the cluster, find, match, and summary steps.

--steps accepts "all", a single step, or STEP+ for that step and every later
one. A selection starting at cluster creates a new run; anything else resumes
the latest run or the one named with --run-id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			selected, err := stage.Select(steps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !skipPreflight {
				if failed := preflight.Failed(preflight.RunAll(cfg, selected)); len(failed) > 0 {
					for _, r := range failed {
						fmt.Fprintln(out, renderStatusLine(r.Name, statusError, r.Detail, shouldColorize(out)))
					}
					return fmt.Errorf("preflight failed: %d check(s)", len(failed))
				}
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runner, err := pipeline.NewRunner(cfg, store, logger)
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context(), pipeline.Options{Steps: selected, RunID: strings.TrimSpace(runID)})
			if err != nil {
				return err
			}
			printRunResult(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&steps, "steps", "all", "Steps to run: all, cluster, find, match, summary, or STEP+")
	cmd.Flags().StringVar(&runID, "run-id", "", "Resume this run (full id or unique prefix)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip input and directory checks")
	return cmd
}

func printRunResult(out io.Writer, res *pipeline.Result) {
	if res == nil || res.Run == nil {
		return
	}
	names := make([]string, len(res.Steps))
	for i, n := range res.Steps {
		names[i] = string(n)
	}
	fmt.Fprintf(out, "Run %s: %s\n", shortID(res.Run.ID), strings.Join(names, ", "))
	if res.Cluster != nil {
		fmt.Fprintf(out, "  peaks: %d picked, %d clustered\n", res.Cluster.Picked, res.Cluster.Clustered())
	}
	if res.Find != nil {
		fmt.Fprintf(out, "  networks: %d from %d merged points\n", len(res.Find.Networks), len(res.Find.Merged))
	}
	if res.Match != nil {
		fmt.Fprintf(out, "  matches: %d of %d networks (library %d entries)\n",
			matching.Matched(res.Match.Networks), len(res.Match.Networks), res.Match.LibraryEntries)
	}
	if res.Summary != nil {
		fmt.Fprintf(out, "  reports: %s\n", res.Summary.Files.Summary)
	}
}
