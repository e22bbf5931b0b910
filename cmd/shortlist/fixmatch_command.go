package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shortlist/internal/watchlist"
)

func newFixMatchCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "fix-match <entry> <catalog-id>",
		Short: "Re-point an entry at a specific catalog record",
		Long: `When enrichment matched the wrong title, fix-match replaces the entry's
metadata with the catalog record for the given id. The media type decides
which catalog endpoint is queried; it defaults to the entry's current type.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || catalogID <= 0 {
				return fmt.Errorf("invalid catalog id %q", args[1])
			}

			return ctx.withStore(func(store *watchlist.Store) error {
				entry, err := resolveEntry(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}

				mediaType := entry.MediaType
				if typeFlag != "" {
					parsed, ok := watchlist.ParseMediaType(typeFlag)
					if !ok {
						return fmt.Errorf("unknown media type %q", typeFlag)
					}
					mediaType = parsed
				}

				enricher, err := ctx.newEnricher(store)
				if err != nil {
					return err
				}
				updated, err := enricher.FixMatch(cmd.Context(), entry.ID, catalogID, mediaType)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Matched %q to %s (catalog id %d)\n",
					entry.OriginalTitle, updated.Title, updated.CatalogID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Catalog media type to fetch (movie, tv)")
	return cmd
}
