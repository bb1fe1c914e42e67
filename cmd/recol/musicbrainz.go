package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var musicbrainzCmd = &cobra.Command{
	Use:   "musicbrainz",
	Short: "Reconcile catalog albums against MusicBrainz",
	Long: `Match catalog albums against MusicBrainz releases and merge the winning
release into each album: canonical title, year, artist credits, track
titles and genres.

By default only albums never looked up are processed. --retry re-attempts
albums whose earlier lookup found no acceptable match; --total re-syncs
every album, matched ones included.`,
	RunE: runMusicBrainz,
}

func init() {
	musicbrainzCmd.Flags().Bool("retry", false, "retry previously failing matches")
	musicbrainzCmd.Flags().Bool("total", false, "re-sync previously matched albums")
	rootCmd.AddCommand(musicbrainzCmd)
}

func runMusicBrainz(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	retry, _ := cmd.Flags().GetBool("retry")
	total, _ := cmd.Flags().GetBool("total")

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	client := musicbrainz.NewClient()
	defer client.Close()

	if _, err := musicbrainz.ImportGenres(ctx, client, cat); err != nil {
		util.WarnLog("Genre import failed: %v", err)
	}

	reconciler := musicbrainz.NewReconciler(musicbrainz.ReconcilerConfig{
		Catalog:      cat,
		Client:       client,
		Retry:        retry,
		Total:        total,
		ShowProgress: !viper.GetBool("quiet"),
	})

	startTime := time.Now()
	result, err := reconciler.Run(ctx)
	if err != nil {
		return fmt.Errorf("musicbrainz reconcile failed: %w", err)
	}

	util.SuccessLog("Reconcile complete in %v", time.Since(startTime).Round(time.Second))
	util.InfoLog("  Albums checked: %d", result.AlbumsChecked)
	util.InfoLog("  Matched: %d", result.Matched)
	util.InfoLog("  Unmatched: %d", result.Unmatched)
	if result.Errors > 0 {
		util.WarnLog("  Errors: %d", result.Errors)
	}

	return nil
}
