package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shortlist/internal/enrich"
	"shortlist/internal/watchlist"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var forceAll bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch catalog metadata and ratings for pending entries",
		Long: `Enrich walks the watch list and fills in metadata from the primary
catalog plus ratings from the secondary catalog when configured. Only
entries still missing details or ratings are visited; --all refreshes
everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *watchlist.Store) error {
				enricher, err := ctx.newEnricher(store)
				if err != nil {
					return err
				}

				report, err := enricher.EnrichAll(cmd.Context(), forceAll)
				if err != nil {
					if errors.Is(err, enrich.ErrNotConfigured) {
						return fmt.Errorf("%w; set tmdb.api_key in the config or export TMDB_API_KEY", err)
					}
					return err
				}

				out := cmd.OutOrStdout()
				if report.Targets == 0 {
					fmt.Fprintln(out, "Nothing to enrich")
					return nil
				}
				fmt.Fprintf(out, "Enriched %d of %d entries in %s\n",
					report.Enriched, report.Targets, report.Duration.Round(time.Millisecond))
				for _, title := range report.NoMatches {
					fmt.Fprintf(out, "  no match: %s\n", title)
				}
				for _, failure := range report.Failures {
					fmt.Fprintf(out, "  failed:   %s: %v\n", failure.Title, failure.Err)
				}
				if report.Failed() > 0 {
					return fmt.Errorf("%d entries failed to enrich", report.Failed())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceAll, "all", false, "Re-enrich every entry, not just pending ones")
	return cmd
}
