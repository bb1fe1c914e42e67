package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/record-collection/internal/discogs"
	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var discogsCmd = &cobra.Command{
	Use:   "discogs",
	Short: "Sync your Discogs collection into the catalog",
	Long: `Fetch your Discogs collection and import every release into the catalog.

Releases already present (matched by discogs id) are skipped unless --total
is given. Each imported album is immediately reconciled against MusicBrainz.
With --delete, albums whose release has left the remote collection are
removed.`,
	RunE: runDiscogs,
}

func init() {
	discogsCmd.Flags().Bool("delete", false, "delete albums no longer in the remote collection")
	discogsCmd.Flags().Bool("total", false, "re-import already-known releases")
	rootCmd.AddCommand(discogsCmd)
}

func runDiscogs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	key, err := requireConfigString("discogs.key")
	if err != nil {
		return err
	}
	secret, err := requireConfigString("discogs.secret")
	if err != nil {
		return err
	}
	username, err := requireConfigString("discogs.username")
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

	client, err := discogs.NewClient(discogs.ClientConfig{
		Key:      key,
		Secret:   secret,
		Username: username,
	})
	if err != nil {
		return err
	}

	mbClient := musicbrainz.NewClient()
	defer mbClient.Close()
	if _, err := musicbrainz.ImportGenres(ctx, mbClient, cat); err != nil {
		util.WarnLog("Genre import failed: %v", err)
	}

	syncer := discogs.NewSyncer(discogs.SyncerConfig{
		Catalog:       cat,
		Client:        client,
		Reconciler:    newReconciler(cat, mbClient),
		Total:         total,
		DeleteOrphans: deleteOrphans,
	})

	startTime := time.Now()
	result, err := syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("discogs sync failed: %w", err)
	}

	util.SuccessLog("Discogs sync complete in %v", time.Since(startTime).Round(time.Second))
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
