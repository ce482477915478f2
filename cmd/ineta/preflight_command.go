package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ineta/internal/preflight"
	"ineta/internal/stage"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var steps string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check configuration, directories, and input files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			selected, err := stage.Select(steps)
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg, selected)
			failed := preflight.Failed(results)
			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("preflight failed: %d check(s)", len(failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&steps, "steps", "all", "Check inputs for these steps")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}
