package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/scan"
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Import local audio files into the catalog",
	Long: `Scan a directory tree for audio files and import them into the catalog.

Files are grouped per directory and resolved into albums using their tags.
A directory named "Various Artists" (or the --various flag) marks its albums
as compilations. Already-imported file paths are skipped unless --total is
given; --delete removes tracks whose files have disappeared, plus any albums
left empty by that.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSlice("except", nil, "path(s) to exclude")
	scanCmd.Flags().Bool("various", false, "treat all albums as various-artists compilations")
	scanCmd.Flags().Bool("delete", false, "delete tracks whose files are gone, and albums left empty")
	scanCmd.Flags().Bool("total", false, "re-import already-known file paths")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogFlags()

	root := args[0]
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", root)
	}

	exceptions, _ := cmd.Flags().GetStringSlice("except")
	various, _ := cmd.Flags().GetBool("various")
	deleteOrphans, _ := cmd.Flags().GetBool("delete")
	total, _ := cmd.Flags().GetBool("total")

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	// The genre reference list feeds every import
	mbClient := musicbrainz.NewClient()
	defer mbClient.Close()
	if _, err := musicbrainz.ImportGenres(ctx, mbClient, cat); err != nil {
		util.WarnLog("Genre import failed: %v", err)
	}

	probeDurations := scan.CheckFFprobeAvailable()
	if !probeDurations {
		util.WarnLog("ffprobe not found in PATH - track durations will come from tags only")
		util.WarnLog("Install ffmpeg for best results: https://ffmpeg.org/")
	}

	util.InfoLog("Scanning %s", root)
	batches, err := scan.Walk(root, exceptions, various)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	util.InfoLog("Found %d directories with audio files", len(batches))

	importer, err := scan.NewImporter(&scan.Config{
		Catalog:        cat,
		Total:          total,
		ProbeDurations: probeDurations,
	})
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}

	startTime := time.Now()
	result := importer.ImportAll(batches)

	util.SuccessLog("Import complete in %v", time.Since(startTime).Round(time.Millisecond))
	util.InfoLog("  Files imported: %d", result.FilesImported)
	util.InfoLog("  Files skipped: %d", result.FilesSkipped)
	util.InfoLog("  Albums resolved: %d", result.AlbumsResolved)
	if len(result.Errors) > 0 {
		util.WarnLog("  Errors: %d", len(result.Errors))
	}

	if deleteOrphans {
		deleted, albumIDs, err := cat.DeleteTracksNotInFilePaths(result.SeenPaths)
		if err != nil {
			return fmt.Errorf("failed to delete orphan tracks: %w", err)
		}
		if deleted > 0 {
			util.InfoLog("Deleted %d orphan tracks", deleted)
		}
		if len(albumIDs) > 0 {
			deletedAlbums, err := cat.DeleteAlbumsWithoutTracks(albumIDs)
			if err != nil {
				return fmt.Errorf("failed to delete orphan albums: %w", err)
			}
			if deletedAlbums > 0 {
				util.InfoLog("Deleted %d orphan albums", deletedAlbums)
			}
		}
		if deletedArtists, err := resolve.New(cat).CleanupOrphans(); err != nil {
			return fmt.Errorf("failed to delete orphan artists: %w", err)
		} else if deletedArtists > 0 {
			util.InfoLog("Deleted %d orphan artists", deletedArtists)
		}
	}

	return nil
}
