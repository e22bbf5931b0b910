package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/genres"
	"shortlist/internal/query"
	"shortlist/internal/watchlist"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		filters    filterFlags
		sortFlag   string
		descending bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List watch-list entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			built, err := filters.build()
			if err != nil {
				return err
			}
			sortKey, ok := query.ParseSortKey(sortFlag)
			if !ok {
				return fmt.Errorf("unknown sort key %q (use score, title, or date)", sortFlag)
			}

			return ctx.withStore(func(store *watchlist.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				total := len(entries)
				entries = query.Apply(entries, built)
				if sortFlag != "" {
					query.Sort(entries, sortKey, descending)
				}

				if jsonOutput {
					views := make([]entryView, 0, len(entries))
					for _, entry := range entries {
						views = append(views, newEntryView(entry))
					}
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					if total == 0 {
						fmt.Fprintln(out, "Watch list is empty; add titles with 'shortlist add'")
					} else {
						fmt.Fprintln(out, "No entries match the given filters")
					}
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i+1),
						shortID(entry.ID),
						entry.Title,
						string(entry.MediaType),
						formatYear(entry),
						formatScore(entry),
						genres.Join(entry.GenreIDs),
						yesNo(entry.Watched),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "ID", "TITLE", "TYPE", "YEAR", "SCORE", "GENRES", "WATCHED"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				if len(entries) < total {
					fmt.Fprintf(out, "%d of %d entries shown\n", len(entries), total)
				}
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&sortFlag, "sort", "", "Sort by score, title, or date (default keeps insertion order)")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
