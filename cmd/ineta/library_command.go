package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ineta/internal/library"
	"ineta/internal/report"
)

type libraryEntryView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Solvent     string  `json:"solvent"`
	Ambiguity   float64 `json:"ambiguity"`
	Bonds       int     `json:"bonds"`
}

type libraryView struct {
	Path    string             `json:"path"`
	Entries []libraryEntryView `json:"entries"`
	Skipped []library.Skipped  `json:"skipped,omitempty"`
}

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Reference library utilities",
	}
	cmd.AddCommand(newLibraryInspectCommand(ctx))
	return cmd
}

func newLibraryInspectCommand(ctx *commandContext) *cobra.Command {
	var path string
	var names []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the entries a library file provides",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(path)
			if target == "" {
				target = cfg.Paths.LibraryFile
			}
			if target == "" {
				return fmt.Errorf("no library file: set paths.library_file or pass --path")
			}
			lib, err := library.Load(target)
			if err != nil {
				return err
			}
			lib = lib.Filter(names)

			view := libraryView{Path: target, Skipped: lib.Skipped}
			for _, e := range lib.Entries {
				view.Entries = append(view.Entries, libraryEntryView{
					ID:          report.EntryID(e.ID),
					Name:        e.Name,
					DisplayName: library.DisplayName(e.Name),
					Solvent:     e.Solvent,
					Ambiguity:   e.Ambiguity,
					Bonds:       len(e.Networks),
				})
			}
			if jsonOut {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Library: %s (%d entries, %d skipped)\n", target, len(view.Entries), len(view.Skipped))
			if len(view.Entries) > 0 {
				rows := make([][]string, 0, len(view.Entries))
				for _, e := range view.Entries {
					rows = append(rows, []string{e.ID, e.DisplayName, e.Solvent, report.FormatScore(e.Ambiguity), strconv.Itoa(e.Bonds)})
				}
				headers := []string{"ID", "Name", "Solvent", "Ambiguity", "Bonds"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}
				if err := writeRows(out, headers, rows, aligns, false); err != nil {
					return err
				}
			}
			for _, s := range view.Skipped {
				fmt.Fprintln(out, renderStatusLine(s.Key, statusWarn, s.Reason, shouldColorize(out)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Library file (defaults to paths.library_file)")
	cmd.Flags().StringSliceVar(&names, "name", nil, "Only list entries with these names")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}
