package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/watchlist"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add titles to the watch list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, ok := watchlist.ParseMediaType(typeFlag)
			if !ok {
				return fmt.Errorf("unknown media type %q", typeFlag)
			}

			return ctx.withStore(func(store *watchlist.Store) error {
				added, err := store.AddMany(cmd.Context(), args, mediaType)
				if err != nil {
					return err
				}
				if added == 0 {
					return fmt.Errorf("no titles added")
				}
				total, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d title(s), %d on the list; run 'shortlist enrich' to fetch metadata\n", added, total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "", "Media type for the new titles (movie, tv)")
	return cmd
}
