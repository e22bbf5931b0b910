package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shortlist/internal/genres"
	"shortlist/internal/query"
	"shortlist/internal/watchlist"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Show one entry in detail",
		Long:  "Show a single entry by list position or id (prefixes accepted).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *watchlist.Store) error {
				entry, err := resolveEntry(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, newEntryView(*entry))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Title:        %s\n", entry.Title)
				if entry.OriginalTitle != "" && entry.OriginalTitle != entry.Title {
					fmt.Fprintf(out, "Imported as:  %s\n", entry.OriginalTitle)
				}
				fmt.Fprintf(out, "ID:           %s\n", entry.ID)
				fmt.Fprintf(out, "Type:         %s\n", entry.MediaType)
				if entry.CatalogID != 0 {
					fmt.Fprintf(out, "Catalog id:   %d\n", entry.CatalogID)
				}
				if entry.ReleaseDate != "" {
					fmt.Fprintf(out, "Released:     %s\n", entry.ReleaseDate)
				}
				if entry.OriginalLanguage != "" {
					fmt.Fprintf(out, "Language:     %s\n", entry.OriginalLanguage)
				}
				if names := genres.Join(entry.GenreIDs); names != "" {
					fmt.Fprintf(out, "Genres:       %s\n", names)
				}
				if score, ok := query.CompositeScore(*entry); ok {
					fmt.Fprintf(out, "Score:        %.1f\n", score)
				}
				if entry.IMDBRating != nil {
					fmt.Fprintf(out, "IMDb:         %.1f", *entry.IMDBRating)
					if entry.IMDBID != "" {
						fmt.Fprintf(out, " (%s)", entry.IMDBID)
					}
					fmt.Fprintln(out)
				}
				if entry.RTRating != nil {
					fmt.Fprintf(out, "RT:           %d%%\n", *entry.RTRating)
				}
				if entry.Metacritic != nil {
					fmt.Fprintf(out, "Metacritic:   %s\n", strconv.Itoa(*entry.Metacritic))
				}
				if entry.VoteCount > 0 {
					fmt.Fprintf(out, "Catalog vote: %.1f (%d votes)\n", entry.VoteAverage, entry.VoteCount)
				}
				fmt.Fprintf(out, "Enriched:     %s\n", yesNo(entry.DetailsFetched))
				fmt.Fprintf(out, "Watched:      %s\n", yesNo(entry.Watched))
				if entry.Overview != "" {
					fmt.Fprintf(out, "\n%s\n", entry.Overview)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of text")
	return cmd
}
