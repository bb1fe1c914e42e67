package catalog

import (
	"errors"
	"testing"

	"github.com/franz/record-collection/internal/util"
)

// seedAlbum inserts an album with one credited artist and returns both
func seedAlbum(t *testing.T, cat *Catalog, title, artistName string) (*Album, *Artist) {
	t.Helper()
	artist := &Artist{Name: artistName}
	if err := cat.InsertArtist(artist); err != nil {
		t.Fatal(err)
	}
	album := &Album{Title: title}
	if err := cat.InsertAlbum(album); err != nil {
		t.Fatal(err)
	}
	if err := cat.UpsertAlbumArtist(album.ID, artist.ID, 0, "/"); err != nil {
		t.Fatal(err)
	}
	return album, artist
}

func TestGetAlbumNotFound(t *testing.T) {
	cat := testCatalog(t, "test-album-missing.db")

	_, err := cat.GetAlbum(12345)
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindAlbumCaseInsensitive(t *testing.T) {
	cat := testCatalog(t, "test-album-find.db")
	album, _ := seedAlbum(t, cat, "Rain Dogs", "Tom Waits")

	found, err := cat.FindAlbum(AlbumFilter{
		Title:       "RAIN DOGS",
		ArtistNames: []string{"tom waits"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || found.ID != album.ID {
		t.Errorf("expected to find album %d, got %v", album.ID, found)
	}
}

func TestFindAlbumRequiresMatchingArtist(t *testing.T) {
	cat := testCatalog(t, "test-album-artist.db")
	seedAlbum(t, cat, "Rain Dogs", "Tom Waits")

	found, err := cat.FindAlbum(AlbumFilter{
		Title:       "Rain Dogs",
		ArtistNames: []string{"Nick Cave"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("expected no match for a different artist")
	}
}

func TestFindAlbumMediumNarrows(t *testing.T) {
	cat := testCatalog(t, "test-album-medium.db")
	album, artist := seedAlbum(t, cat, "Rain Dogs", "Tom Waits")
	album.Medium = NullString(string(MediumVinyl))
	if err := cat.UpdateAlbum(album); err != nil {
		t.Fatal(err)
	}
	_ = artist

	found, err := cat.FindAlbum(AlbumFilter{
		Title:       "Rain Dogs",
		Medium:      MediumCD,
		ArtistNames: []string{"Tom Waits"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("expected the vinyl release not to match a CD filter")
	}
}

func TestFindAlbumCompilation(t *testing.T) {
	cat := testCatalog(t, "test-album-compilation.db")

	album := &Album{Title: "Pure Moods", IsCompilation: true}
	if err := cat.InsertAlbum(album); err != nil {
		t.Fatal(err)
	}

	found, err := cat.FindAlbum(AlbumFilter{Title: "Pure Moods", Compilation: true})
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || found.ID != album.ID {
		t.Errorf("expected compilation match, got %v", found)
	}
}

func TestFindAlbumSpotifyGuard(t *testing.T) {
	cat := testCatalog(t, "test-album-spotify.db")
	album, _ := seedAlbum(t, cat, "Rain Dogs", "Tom Waits")
	album.SpotifyID = NullString("spotify-1")
	if err := cat.UpdateAlbum(album); err != nil {
		t.Fatal(err)
	}

	// A candidate with a different spotify id must not claim this row
	found, err := cat.FindAlbum(AlbumFilter{
		Title:       "Rain Dogs",
		ArtistNames: []string{"Tom Waits"},
		SpotifyID:   "spotify-2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if found != nil {
		t.Error("expected no match for a row bound to another spotify id")
	}

	// The same spotify id matches
	found, err = cat.FindAlbum(AlbumFilter{
		Title:       "Rain Dogs",
		ArtistNames: []string{"Tom Waits"},
		SpotifyID:   "spotify-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || found.ID != album.ID {
		t.Errorf("expected match for the row's own spotify id, got %v", found)
	}
}

func TestDeleteAlbumsNotInDiscogsIDs(t *testing.T) {
	cat := testCatalog(t, "test-album-discogs-delete.db")

	kept := &Album{Title: "Kept", DiscogsID: NullInt(1)}
	gone := &Album{Title: "Gone", DiscogsID: NullInt(2)}
	local := &Album{Title: "Local"}
	for _, a := range []*Album{kept, gone, local} {
		if err := cat.InsertAlbum(a); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := cat.DeleteAlbumsNotInDiscogsIDs([]int64{1})
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deletion, got %d", deleted)
	}

	// Albums without a discogs id are never collection orphans
	count, _ := cat.CountAlbums()
	if count != 2 {
		t.Errorf("expected 2 surviving albums, got %d", count)
	}
}

func TestDeleteTracksNotInFilePathsAndEmptyAlbums(t *testing.T) {
	cat := testCatalog(t, "test-track-orphans.db")

	album := &Album{Title: "Rain Dogs"}
	if err := cat.InsertAlbum(album); err != nil {
		t.Fatal(err)
	}
	one := &Track{Title: "Singapore", AlbumID: NullInt(album.ID),
		FilePath: NullString("/music/a.mp3")}
	two := &Track{Title: "Clap Hands", AlbumID: NullInt(album.ID),
		FilePath: NullString("/music/b.mp3")}
	for _, tr := range []*Track{one, two} {
		if err := cat.InsertTrack(tr); err != nil {
			t.Fatal(err)
		}
	}

	// One file disappeared from disk
	deleted, albumIDs, err := cat.DeleteTracksNotInFilePaths(map[string]bool{"/music/a.mp3": true})
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 track deleted, got %d", deleted)
	}
	if len(albumIDs) != 1 || albumIDs[0] != album.ID {
		t.Errorf("expected touched album ids [%d], got %v", album.ID, albumIDs)
	}

	// The album still has a track and survives
	emptied, err := cat.DeleteAlbumsWithoutTracks(albumIDs)
	if err != nil {
		t.Fatal(err)
	}
	if emptied != 0 {
		t.Errorf("expected no album deletion, got %d", emptied)
	}

	// Now the second file goes too, and the album with it
	deleted, albumIDs, err = cat.DeleteTracksNotInFilePaths(map[string]bool{})
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 track deleted, got %d", deleted)
	}
	emptied, err = cat.DeleteAlbumsWithoutTracks(albumIDs)
	if err != nil {
		t.Fatal(err)
	}
	if emptied != 1 {
		t.Errorf("expected the emptied album to be deleted, got %d", emptied)
	}
}
