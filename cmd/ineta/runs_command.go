package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type runView struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	PeaksFile string   `json:"peaks_file"`
	Stages    []string `json:"stages"`
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored runs",
	}
	cmd.AddCommand(newRunsListCommand(ctx))
	cmd.AddCommand(newRunsRemoveCommand(ctx))
	return cmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]runView, 0, len(runs))
			for _, run := range runs {
				stages, err := store.Stages(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				names := make([]string, len(stages))
				for i, s := range stages {
					names[i] = string(s)
				}
				views = append(views, runView{
					ID:        run.ID,
					CreatedAt: run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					UpdatedAt: run.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
					PeaksFile: run.PeaksFile,
					Stages:    names,
				})
			}
			if jsonOut {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{shortID(v.ID), v.CreatedAt, strings.Join(v.Stages, ","), v.PeaksFile})
			}
			return writeRows(cmd.OutOrStdout(), []string{"Run", "Created", "Stages", "Peaks"}, rows, nil, false)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <run>",
		Short: "Delete a run and its stored step outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, run, err := ctx.resolveRun(cmd, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteRun(cmd.Context(), run.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", run.ID)
			return nil
		},
	}
}
