package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/spotify"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var spotifyCmd = &cobra.Command{
	Use:   "spotify",
	Short: "Sync your saved Spotify albums into the catalog",
	Long: `Fetch your saved Spotify albums and import them into the catalog.

Albums already present (matched by spotify id) are skipped unless --total
is given. Each imported album is immediately reconciled against MusicBrainz.
With --delete, albums no longer saved remotely are removed.

Authentication uses a stored refresh token (spotify.refresh_token) obtained
from a one-time authorization with the user-library-read scope.`,
	RunE: runSpotify,
}

func init() {
	spotifyCmd.Flags().Bool("delete", false, "delete albums no longer saved remotely")
	spotifyCmd.Flags().Bool("total", false, "re-import already-known albums")
	rootCmd.AddCommand(spotifyCmd)
}

func runSpotify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	clientID, err := requireConfigString("spotify.client_id")
	if err != nil {
		return err
	}
	clientSecret, err := requireConfigString("spotify.client_secret")
	if err != nil {
		return err
	}
	refreshToken, err := requireConfigString("spotify.refresh_token")
	if err != nil {
		return err
	}

	deleteOrphans, _ := cmd.Flags().GetBool("delete")
	total, _ := cmd.Flags().GetBool("total")

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	client, err := spotify.NewClient(spotify.ClientConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return err
	}

	mbClient := musicbrainz.NewClient()
	defer mbClient.Close()
	if _, err := musicbrainz.ImportGenres(ctx, mbClient, cat); err != nil {
		util.WarnLog("Genre import failed: %v", err)
	}

	syncer := spotify.NewSyncer(spotify.SyncerConfig{
		Catalog:       cat,
		Client:        client,
		Reconciler:    newReconciler(cat, mbClient),
		Total:         total,
		DeleteOrphans: deleteOrphans,
	})

	startTime := time.Now()
	result, err := syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("spotify sync failed: %w", err)
	}

	util.SuccessLog("Spotify sync complete in %v", time.Since(startTime).Round(time.Second))
	util.InfoLog("  Albums imported: %d", result.AlbumsImported)
	util.InfoLog("  Albums skipped: %d", result.AlbumsSkipped)
	if result.AlbumsDeleted > 0 {
		util.InfoLog("  Albums deleted: %d", result.AlbumsDeleted)
	}
	if result.Errors > 0 {
		util.WarnLog("  Errors: %d", result.Errors)
	}

	return nil
}
