package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/record-collection/internal/lastfm"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var lastfmCmd = &cobra.Command{
	Use:   "lastfm",
	Short: "Apply Last.fm play counts to catalog tracks",
	Long: `Fetch your all-time Last.fm top tracks and write their play counts onto
matching catalog tracks.

Matching tries the recording's MusicBrainz id first, then the artist's
MusicBrainz id plus title, then the artist name plus title. Scrobbles
without a catalog counterpart are skipped.`,
	RunE: runLastFm,
}

func init() {
	rootCmd.AddCommand(lastfmCmd)
}

func runLastFm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	apiKey, err := requireConfigString("lastfm.api_key")
	if err != nil {
		return err
	}
	username, err := requireConfigString("lastfm.username")
	if err != nil {
		return err
	}

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	client, err := lastfm.NewClient(lastfm.ClientConfig{
		APIKey:   apiKey,
		Username: username,
	})
	if err != nil {
		return err
	}

	syncer := lastfm.NewSyncer(lastfm.SyncerConfig{
		Catalog: cat,
		Client:  client,
	})

	startTime := time.Now()
	result, err := syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("lastfm sync failed: %w", err)
	}

	util.SuccessLog("Last.fm sync complete in %v", time.Since(startTime).Round(time.Second))
	util.InfoLog("  Scrobbles checked: %d", result.TracksChecked)
	util.InfoLog("  Tracks updated: %d", result.TracksUpdated)

	return nil
}
