package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/query"
	"shortlist/internal/watchlist"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	var (
		filters    filterFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a random entry matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			built, err := filters.build()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *watchlist.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}

				entry, err := query.PickRandom(query.Apply(entries, built))
				if err != nil {
					if errors.Is(err, query.ErrNoEligibleEntries) {
						return fmt.Errorf("no entries match the given filters")
					}
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, newEntryView(entry))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Tonight: %s", entry.Title)
				if year := entry.ReleaseYear(); year != "" {
					fmt.Fprintf(out, " (%s)", year)
				}
				if score, ok := query.CompositeScore(entry); ok {
					fmt.Fprintf(out, " - %.1f", score)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}
