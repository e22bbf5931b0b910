package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"shortlist/internal/config"
	"shortlist/internal/importer"
	"shortlist/internal/watchlist"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import titles from a text or JSON file",
		Long: `Import titles in bulk. Plain-text input holds one title per line;
JSON input accepts an array of strings, an array of {"title", "type"}
objects, or an object wrapping either list. With no file argument (or "-")
input is read from stdin. A malformed document imports nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				reader io.Reader
				name   string
			)
			if len(args) == 0 || args[0] == "-" {
				reader = cmd.InOrStdin()
				name = "-"
			} else {
				path, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer file.Close()
				reader = file
				name = path
			}

			asJSON := jsonFlag || strings.EqualFold(filepath.Ext(name), ".json")

			var (
				titles []importer.Title
				err    error
			)
			if asJSON {
				titles, err = importer.JSON(reader)
			} else {
				titles, err = importer.Lines(reader)
			}
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *watchlist.Store) error {
				entries := make([]watchlist.NewEntry, 0, len(titles))
				for _, title := range titles {
					entries = append(entries, watchlist.NewEntry{Title: title.Name, MediaType: title.Type})
				}
				added, err := store.AddEntries(cmd.Context(), entries)
				if err != nil {
					return err
				}
				total, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d title(s), %d on the list; run 'shortlist enrich' to fetch metadata\n", added, total)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Treat input as JSON regardless of file extension")
	return cmd
}
