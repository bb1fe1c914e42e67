package resolve

import (
	"os"
	"testing"
	"time"

	"github.com/franz/record-collection/internal/catalog"
)

func testCatalog(t *testing.T, name string) *catalog.Catalog {
	t.Helper()
	tmpFile := name
	t.Cleanup(func() {
		os.Remove(tmpFile)
		os.Remove(tmpFile + "-shm")
		os.Remove(tmpFile + "-wal")
	})

	cat, err := catalog.Open(tmpFile)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func rainDogs() *AlbumCandidate {
	return &AlbumCandidate{
		Title:   "Rain Dogs",
		Year:    1985,
		Medium:  catalog.MediumVinyl,
		Artists: []ArtistCandidate{{Name: "Tom Waits"}},
		Tracks: []TrackCandidate{
			{Title: "Singapore", Position: "A1", Artists: []ArtistCandidate{{Name: "Tom Waits"}}},
			{Title: "Clap Hands", Position: "A2", Artists: []ArtistCandidate{{Name: "Tom Waits"}}},
			{Title: "Cemetery Polka", Position: "B1", Artists: []ArtistCandidate{{Name: "Tom Waits"}}},
			{Title: "Jockey Full of Bourbon", Position: "B2", Artists: []ArtistCandidate{{Name: "Tom Waits"}}},
		},
	}
}

func TestResolveArtistConvergesOnOneRow(t *testing.T) {
	cat := testCatalog(t, "test-resolve-artist.db")
	resolver := New(cat)

	first, err := resolver.ResolveArtist("Tom Waits (2)", Provenance{DiscogsID: 82294})
	if err != nil {
		t.Fatalf("ResolveArtist failed: %v", err)
	}
	if first.Name != "Tom Waits" {
		t.Errorf("expected suffix-stripped name, got %q", first.Name)
	}

	second, err := resolver.ResolveArtist("tom waits", Provenance{MusicBrainzID: "c3aeb863"})
	if err != nil {
		t.Fatalf("ResolveArtist failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same artist row, got ids %d and %d", first.ID, second.ID)
	}
	if !second.DiscogsID.Valid || second.DiscogsID.Int64 != 82294 {
		t.Error("expected discogs id from first resolution to survive")
	}
	if !second.MusicBrainzID.Valid || second.MusicBrainzID.String != "c3aeb863" {
		t.Error("expected musicbrainz id to be refreshed")
	}

	count, err := cat.CountArtists()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 artist, got %d", count)
	}
}

func TestResolveArtistRejectsEmptyName(t *testing.T) {
	cat := testCatalog(t, "test-resolve-artist-empty.db")
	resolver := New(cat)

	if _, err := resolver.ResolveArtist("   ", Provenance{}); err == nil {
		t.Error("expected error for blank artist name")
	}
}

func TestResolveAlbumIdempotent(t *testing.T) {
	cat := testCatalog(t, "test-resolve-album.db")
	resolver := New(cat)

	first, err := resolver.ResolveAlbum(rainDogs())
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}
	second, err := resolver.ResolveAlbum(rainDogs())
	if err != nil {
		t.Fatalf("second ResolveAlbum failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same album row, got ids %d and %d", first.ID, second.ID)
	}

	albums, _ := cat.CountAlbums()
	tracks, _ := cat.CountTracks()
	artists, _ := cat.CountArtists()
	if albums != 1 || tracks != 4 || artists != 1 {
		t.Errorf("expected 1 album / 4 tracks / 1 artist, got %d / %d / %d", albums, tracks, artists)
	}
}

func TestResolveAlbumVinylPositions(t *testing.T) {
	cat := testCatalog(t, "test-resolve-positions.db")
	resolver := New(cat)

	album, err := resolver.ResolveAlbum(rainDogs())
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}

	tracks, err := cat.AlbumTracks(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(tracks))
	}

	// A1 A2 B1 B2 on a single disc: the B side continues at 3
	wantNumbers := []int64{1, 2, 3, 4}
	for idx, track := range tracks {
		if track.DiscNumber.Int64 != 1 {
			t.Errorf("track %d: disc = %d, want 1", idx, track.DiscNumber.Int64)
		}
		if track.TrackNumber.Int64 != wantNumbers[idx] {
			t.Errorf("track %d: number = %d, want %d", idx, track.TrackNumber.Int64, wantNumbers[idx])
		}
	}
}

func TestResolveAlbumCompilationCarriesNoCredits(t *testing.T) {
	cat := testCatalog(t, "test-resolve-compilation.db")
	resolver := New(cat)

	cand := &AlbumCandidate{
		Title:         "Now That's What I Call Polka",
		IsCompilation: true,
		Artists:       []ArtistCandidate{{Name: "Various Artists"}},
		Tracks: []TrackCandidate{
			{Title: "Song One", TrackNumber: 1, Artists: []ArtistCandidate{{Name: "Artist One"}}},
			{Title: "Song Two", TrackNumber: 2, Artists: []ArtistCandidate{{Name: "Artist Two"}}},
		},
	}

	album, err := resolver.ResolveAlbum(cand)
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}
	if !album.IsCompilation {
		t.Error("expected compilation flag to be set")
	}

	credits, err := cat.AlbumArtistCredits(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(credits) != 0 {
		t.Errorf("expected no album credits on a compilation, got %d", len(credits))
	}

	// Track-level credits survive
	tracks, _ := cat.AlbumTracks(album.ID)
	trackCredits, err := cat.TrackArtistCredits(tracks[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(trackCredits) != 1 || trackCredits[0].Name != "Artist One" {
		t.Errorf("expected track credit for Artist One, got %v", trackCredits)
	}
}

func TestResolveAlbumKeepsKnownYear(t *testing.T) {
	cat := testCatalog(t, "test-resolve-year.db")
	resolver := New(cat)

	album, err := resolver.ResolveAlbum(rainDogs())
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}
	if album.Year.Int64 != 1985 {
		t.Fatalf("expected year 1985, got %d", album.Year.Int64)
	}

	// A later candidate with a different year does not overwrite it
	later := rainDogs()
	later.Year = 1999
	album, err = resolver.ResolveAlbum(later)
	if err != nil {
		t.Fatalf("second ResolveAlbum failed: %v", err)
	}
	if album.Year.Int64 != 1985 {
		t.Errorf("expected year to stay 1985, got %d", album.Year.Int64)
	}
}

func TestResolveAlbumSeparatesMediums(t *testing.T) {
	cat := testCatalog(t, "test-resolve-medium.db")
	resolver := New(cat)

	vinyl, err := resolver.ResolveAlbum(rainDogs())
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}

	cd := rainDogs()
	cd.Medium = catalog.MediumCD
	cdAlbum, err := resolver.ResolveAlbum(cd)
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}

	if vinyl.ID == cdAlbum.ID {
		t.Error("expected the CD release to get its own album row")
	}
}

func TestResolveTrackByFilePath(t *testing.T) {
	cat := testCatalog(t, "test-resolve-filepath.db")
	resolver := New(cat)

	cand := &TrackCandidate{
		Title:    "Downtown Train",
		FilePath: "/music/tom waits/downtown train.mp3",
		FileHash: "abc123",
		Duration: 235 * time.Second,
		Artists:  []ArtistCandidate{{Name: "Tom Waits"}},
	}

	first, err := resolver.ResolveTrack(0, 1, 1, cand)
	if err != nil {
		t.Fatalf("ResolveTrack failed: %v", err)
	}
	if !first.DurationSec.Valid || first.DurationSec.Int64 != 235 {
		t.Errorf("expected duration 235s, got %v", first.DurationSec)
	}

	// Same file again converges on the same row
	second, err := resolver.ResolveTrack(0, 1, 1, cand)
	if err != nil {
		t.Fatalf("second ResolveTrack failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same track row, got ids %d and %d", first.ID, second.ID)
	}

	count, _ := cat.CountTracks()
	if count != 1 {
		t.Errorf("expected 1 track, got %d", count)
	}
}

func TestCleanupOrphans(t *testing.T) {
	cat := testCatalog(t, "test-resolve-orphans.db")
	resolver := New(cat)

	if _, err := resolver.ResolveArtist("Nobody References Me", Provenance{}); err != nil {
		t.Fatalf("ResolveArtist failed: %v", err)
	}
	if _, err := resolver.ResolveAlbum(rainDogs()); err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}

	deleted, err := resolver.CleanupOrphans()
	if err != nil {
		t.Fatalf("CleanupOrphans failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 orphan deleted, got %d", deleted)
	}

	// The credited artist survives
	artist, err := cat.FindArtistByName("Tom Waits")
	if err != nil {
		t.Fatal(err)
	}
	if artist == nil {
		t.Error("expected Tom Waits to survive the orphan sweep")
	}
}
