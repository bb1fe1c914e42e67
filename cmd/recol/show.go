package main

import (
	"github.com/franz/record-collection/internal/util"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show catalog statistics",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	applyLogFlags()

	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	artists, err := cat.CountArtists()
	if err != nil {
		return err
	}
	albums, err := cat.CountAlbums()
	if err != nil {
		return err
	}
	tracks, err := cat.CountTracks()
	if err != nil {
		return err
	}
	genres, err := cat.AllGenres()
	if err != nil {
		return err
	}

	util.InfoLog("Artists: %d", artists)
	util.InfoLog("Albums:  %d", albums)
	util.InfoLog("Tracks:  %d", tracks)
	util.InfoLog("Genres:  %d", len(genres))

	return nil
}
