package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/watchlist"
)

func newWatchedCommand(ctx *commandContext) *cobra.Command {
	var unwatch bool

	cmd := &cobra.Command{
		Use:   "watched <entry>...",
		Short: "Mark entries as watched",
		Long:  "Mark entries by list position or id. Use --undo to mark them unwatched again.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *watchlist.Store) error {
				out := cmd.OutOrStdout()
				for _, ref := range args {
					entry, err := resolveEntry(cmd.Context(), store, ref)
					if err != nil {
						return err
					}
					if _, err := store.SetWatched(cmd.Context(), entry.ID, !unwatch); err != nil {
						return err
					}
					if unwatch {
						fmt.Fprintf(out, "Marked unwatched: %s\n", entry.Title)
					} else {
						fmt.Fprintf(out, "Marked watched: %s\n", entry.Title)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unwatch, "undo", false, "Mark the entries unwatched instead")
	return cmd
}
