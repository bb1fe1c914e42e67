package resolve

import (
	"testing"
	"time"

	"github.com/franz/record-collection/internal/catalog"
)

// seedScannedAlbum resolves a deliberately scruffy local-scan album the
// merge tests overwrite with canonical data
func seedScannedAlbum(t *testing.T, resolver *Resolver) *catalog.Album {
	t.Helper()
	album, err := resolver.ResolveAlbum(&AlbumCandidate{
		Title:   "rain dogs",
		Artists: []ArtistCandidate{{Name: "tom waits"}},
		Tracks: []TrackCandidate{
			{Title: "singapore", TrackNumber: 1, Duration: 100 * time.Second,
				Artists: []ArtistCandidate{{Name: "tom waits"}}},
			{Title: "clap hands", TrackNumber: 2,
				Artists: []ArtistCandidate{{Name: "tom waits"}}},
		},
	})
	if err != nil {
		t.Fatalf("failed to seed album: %v", err)
	}
	return album
}

func canonicalRainDogs() *AlbumCandidate {
	return &AlbumCandidate{
		Title:   "Rain Dogs",
		Year:    1985,
		Artists: []ArtistCandidate{{Name: "Tom Waits", Provenance: Provenance{MusicBrainzID: "artist-mbid"}}},
		Tracks: []TrackCandidate{
			{Title: "Singapore", DiscNumber: 1, TrackNumber: 1, Year: 1985,
				Duration:   160 * time.Second,
				Artists:    []ArtistCandidate{{Name: "Tom Waits"}},
				Provenance: Provenance{MusicBrainzID: "rec-1"}},
			{Title: "Clap Hands", DiscNumber: 1, TrackNumber: 2, Year: 1985,
				Duration:   227 * time.Second,
				Artists:    []ArtistCandidate{{Name: "Tom Waits"}},
				Provenance: Provenance{MusicBrainzID: "rec-2"}},
		},
		Provenance: Provenance{
			MusicBrainzID:      "release-mbid",
			MusicBrainzGroupID: "group-mbid",
		},
	}
}

func TestOverwriteAlbum(t *testing.T) {
	cat := testCatalog(t, "test-overwrite.db")
	resolver := New(cat)
	album := seedScannedAlbum(t, resolver)

	if err := resolver.OverwriteAlbum(album, canonicalRainDogs()); err != nil {
		t.Fatalf("OverwriteAlbum failed: %v", err)
	}

	merged, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Title != "Rain Dogs" {
		t.Errorf("title = %q, want %q", merged.Title, "Rain Dogs")
	}
	if merged.Year.Int64 != 1985 {
		t.Errorf("year = %d, want 1985", merged.Year.Int64)
	}
	if merged.MusicBrainzID.String != "release-mbid" || merged.MusicBrainzGroupID.String != "group-mbid" {
		t.Error("expected release and group ids to be set")
	}

	tracks, err := cat.AlbumTracks(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "Singapore" || tracks[1].Title != "Clap Hands" {
		t.Errorf("track titles = %q, %q", tracks[0].Title, tracks[1].Title)
	}
	if tracks[0].MusicBrainzID.String != "rec-1" {
		t.Errorf("track mbid = %q, want rec-1", tracks[0].MusicBrainzID.String)
	}

	// The local file's measured duration beats the provider's; only the
	// track without one takes the candidate value
	if tracks[0].DurationSec.Int64 != 100 {
		t.Errorf("track 1 duration = %d, want 100 (catalog value kept)", tracks[0].DurationSec.Int64)
	}
	if tracks[1].DurationSec.Int64 != 227 {
		t.Errorf("track 2 duration = %d, want 227 (filled in)", tracks[1].DurationSec.Int64)
	}
}

func TestOverwriteAlbumRebuildsCredits(t *testing.T) {
	cat := testCatalog(t, "test-overwrite-credits.db")
	resolver := New(cat)
	album := seedScannedAlbum(t, resolver)

	cand := canonicalRainDogs()
	cand.Artists = []ArtistCandidate{
		{Name: "Tom Waits", JoinPhrase: "&"},
		{Name: "Marc Ribot"},
	}
	if err := resolver.OverwriteAlbum(album, cand); err != nil {
		t.Fatalf("OverwriteAlbum failed: %v", err)
	}

	credits, err := cat.AlbumArtistCredits(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(credits) != 2 {
		t.Fatalf("expected 2 credits, got %d", len(credits))
	}
	if credits[0].Name != "Tom Waits" || credits[1].Name != "Marc Ribot" {
		t.Errorf("credits = %q, %q", credits[0].Name, credits[1].Name)
	}
	if credits[0].JoinPhrase != "&" {
		t.Errorf("join phrase = %q, want &", credits[0].JoinPhrase)
	}
	if got := catalog.CreditString(credits); got != "Tom Waits & Marc Ribot" {
		t.Errorf("credit string = %q, want %q", got, "Tom Waits & Marc Ribot")
	}
}

func TestOverwriteAlbumExtraCatalogTracksSurvive(t *testing.T) {
	cat := testCatalog(t, "test-overwrite-extra.db")
	resolver := New(cat)
	album := seedScannedAlbum(t, resolver)

	// Candidate knows only the first track; the second catalog track is
	// left alone
	cand := canonicalRainDogs()
	cand.Tracks = cand.Tracks[:1]
	if err := resolver.OverwriteAlbum(album, cand); err != nil {
		t.Fatalf("OverwriteAlbum failed: %v", err)
	}

	tracks, _ := cat.AlbumTracks(album.ID)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "Singapore" {
		t.Errorf("track 1 = %q, want Singapore", tracks[0].Title)
	}
	if tracks[1].Title != "clap hands" {
		t.Errorf("track 2 = %q, want untouched %q", tracks[1].Title, "clap hands")
	}
}

func TestMarkAlbumUnresolved(t *testing.T) {
	cat := testCatalog(t, "test-unresolved.db")
	resolver := New(cat)
	album := seedScannedAlbum(t, resolver)

	if err := resolver.MarkAlbumUnresolved(album); err != nil {
		t.Fatalf("MarkAlbumUnresolved failed: %v", err)
	}

	stored, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.MusicBrainzID.Valid || stored.MusicBrainzID.String != "" {
		t.Errorf("expected '' sentinel, got %v", stored.MusicBrainzID)
	}
}

func TestMarkAlbumUnresolvedKeepsRealID(t *testing.T) {
	cat := testCatalog(t, "test-unresolved-keep.db")
	resolver := New(cat)
	album := seedScannedAlbum(t, resolver)

	if err := resolver.OverwriteAlbum(album, canonicalRainDogs()); err != nil {
		t.Fatalf("OverwriteAlbum failed: %v", err)
	}
	if err := resolver.MarkAlbumUnresolved(album); err != nil {
		t.Fatalf("MarkAlbumUnresolved failed: %v", err)
	}

	stored, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.MusicBrainzID.String != "release-mbid" {
		t.Errorf("expected real id to survive, got %q", stored.MusicBrainzID.String)
	}
}
