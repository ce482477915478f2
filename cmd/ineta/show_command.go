package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ineta/internal/library"
	"ineta/internal/matching"
	"ineta/internal/pipeline"
	"ineta/internal/report"
	"ineta/internal/stage"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display stored networks and matches",
	}
	cmd.AddCommand(newShowNetworksCommand(ctx))
	cmd.AddCommand(newShowMatchesCommand(ctx))
	return cmd
}

type showFlags struct {
	runID     string
	jsonOut   bool
	forceGrid bool
}

func (f *showFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.runID, "run", "", "Run id or prefix (defaults to the latest run)")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&f.forceGrid, "table", false, "Render a table even when stdout is not a terminal")
}

func newShowNetworksCommand(ctx *commandContext) *cobra.Command {
	var flags showFlags
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List the spin networks found by a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, run, err := ctx.resolveRun(cmd, flags.runID)
			if err != nil {
				return err
			}
			var found pipeline.FindOutput
			if err := store.LoadStage(cmd.Context(), run.ID, stage.Find, &found); err != nil {
				return fmt.Errorf("run %s has no networks: %w", shortID(run.ID), err)
			}
			if flags.jsonOut {
				return writeJSON(cmd, found.Networks)
			}
			if len(found.Networks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No networks found")
				return nil
			}
			rows := make([][]string, 0, len(found.Networks))
			for i, nw := range found.Networks {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.Itoa(len(nw)),
					report.FormatNetwork(nw, cfg.Report.Precision),
				})
			}
			headers := []string{"Network", "Points", "Points (cs, dq)"}
			return writeRows(cmd.OutOrStdout(), headers, rows, []columnAlignment{alignRight, alignRight, alignLeft}, flags.forceGrid)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newShowMatchesCommand(ctx *commandContext) *cobra.Command {
	var flags showFlags
	var networkNumber int
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List library matches for each network",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, run, err := ctx.resolveRun(cmd, flags.runID)
			if err != nil {
				return err
			}
			var matched pipeline.MatchOutput
			if err := store.LoadStage(cmd.Context(), run.ID, stage.Match, &matched); err != nil {
				return fmt.Errorf("run %s has no matches: %w", shortID(run.ID), err)
			}
			networks := matched.Networks
			if networkNumber > 0 {
				networks = filterNetwork(networks, networkNumber)
				if len(networks) == 0 {
					return fmt.Errorf("run %s has no network #%d", shortID(run.ID), networkNumber)
				}
			}
			if flags.jsonOut {
				return writeJSON(cmd, networks)
			}
			rows := matchRows(networks)
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches found")
				return nil
			}
			headers := []string{"Network", "ID", "Name", "Solvent", "Ambiguity", "Hit", "Coverage", "Matched"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			return writeRows(cmd.OutOrStdout(), headers, rows, aligns, flags.forceGrid)
		},
	}
	flags.bind(cmd)
	cmd.Flags().IntVar(&networkNumber, "network", 0, "Only show this 1-based network number")
	return cmd
}

func filterNetwork(all []matching.NetworkMatches, number int) []matching.NetworkMatches {
	for _, nm := range all {
		if nm.Number == number {
			return []matching.NetworkMatches{nm}
		}
	}
	return nil
}

func matchRows(all []matching.NetworkMatches) [][]string {
	var rows [][]string
	for _, nm := range all {
		for _, r := range nm.Results {
			rows = append(rows, []string{
				strconv.Itoa(nm.Number),
				report.EntryID(r.ID),
				library.DisplayName(r.Name),
				r.Solvent,
				report.FormatScore(r.Ambiguity),
				report.FormatScore(r.HitScore),
				report.FormatScore(r.CoverageScore),
				report.FormatEdges(r.Matched),
			})
		}
	}
	return rows
}
