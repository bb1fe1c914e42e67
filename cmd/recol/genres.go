package main

import (
	"context"

	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Import the MusicBrainz genre reference list",
	Long: `Fetch the curated MusicBrainz genre list and import it into the catalog.

Genre names are capitalized word by word, with a special-case table for
acronyms (EDM, IDM, UK Garage, ...). Existing genres are renamed in place
when the canonical spelling differs. The sync commands run this import
automatically; this command exists for running it on its own.`,
	RunE: runGenres,
}

func init() {
	rootCmd.AddCommand(genresCmd)
}

func runGenres(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	client := musicbrainz.NewClient()
	defer client.Close()

	util.InfoLog("Importing MusicBrainz genres ...")
	if _, err := musicbrainz.ImportGenres(ctx, client, cat); err != nil {
		return err
	}

	return nil
}
