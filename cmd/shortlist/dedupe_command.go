package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/watchlist"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate titles from the watch list",
		Long: `Dedupe collapses entries whose titles match after trimming and case
folding. The earliest entry keeps its place; an enriched duplicate replaces
an unenriched survivor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *watchlist.Store) error {
				removed, err := store.DedupeAll(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if removed == 0 {
					fmt.Fprintln(out, "No duplicates found")
					return nil
				}
				fmt.Fprintf(out, "Removed %d duplicate(s)\n", removed)
				return nil
			})
		},
	}
}
