package musicbrainz

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/resolve"
)

func testCatalog(t *testing.T, name string) *catalog.Catalog {
	t.Helper()
	t.Cleanup(func() {
		os.Remove(name)
		os.Remove(name + "-shm")
		os.Remove(name + "-wal")
	})

	cat, err := catalog.Open(name)
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func seedAlbum(t *testing.T, cat *catalog.Catalog) *catalog.Album {
	t.Helper()
	cand := &resolve.AlbumCandidate{
		Title:   "Rain Dogs",
		Medium:  catalog.MediumFile,
		Artists: []resolve.ArtistCandidate{{Name: "Tom Waits"}},
		Tracks: []resolve.TrackCandidate{
			{Title: "Singapore", DiscNumber: 1, TrackNumber: 1, Artists: []resolve.ArtistCandidate{{Name: "Tom Waits"}}},
			{Title: "Clap Hands", DiscNumber: 1, TrackNumber: 2, Artists: []resolve.ArtistCandidate{{Name: "Tom Waits"}}},
		},
	}

	var album *catalog.Album
	err := cat.Transaction(func(tx *catalog.Catalog) error {
		var err error
		album, err = resolve.New(tx).ResolveAlbum(cand)
		return err
	})
	if err != nil {
		t.Fatalf("failed to seed album: %v", err)
	}
	return album
}

const matchingRelease = `{
  "id": "mb-release",
  "title": "Rain Dogs",
  "date": "1985-09-30",
  "artist-credit": [{"name": "Tom Waits", "artist": {"id": "mb-waits", "name": "Tom Waits"}}],
  "release-group": {"id": "mb-group", "first-release-date": "1985"},
  "media": [
    {
      "position": 1,
      "tracks": [
        {"position": 1, "title": "Singapore", "length": 166000,
         "artist-credit": [{"artist": {"id": "mb-waits", "name": "Tom Waits"}}],
         "recording": {"id": "mb-singapore"}},
        {"position": 2, "title": "Clap Hands", "length": 228000,
         "artist-credit": [{"artist": {"id": "mb-waits", "name": "Tom Waits"}}],
         "recording": {"id": "mb-clap"}}
      ]
    }
  ]
}`

const unrelatedRelease = `{
  "id": "mb-other",
  "title": "Trout Mask Replica",
  "artist-credit": [{"artist": {"id": "mb-beefheart", "name": "Captain Beefheart"}}],
  "release-group": {"id": "mb-other-group", "first-release-date": "1969"},
  "media": [
    {
      "position": 1,
      "tracks": [
        {"position": 1, "title": "Frownland", "recording": {"id": "mb-frownland"}},
        {"position": 2, "title": "Dachau Blues", "recording": {"id": "mb-dachau"}}
      ]
    }
  ]
}`

func reconcileServer(t *testing.T, releaseJSON, releaseID string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/release":
			fmt.Fprintf(w, `{"releases": [{"id": %q, "title": "x", "score": 100}]}`, releaseID)
		case "/release/" + releaseID:
			fmt.Fprint(w, releaseJSON)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
}

func TestReconcileAlbumMatch(t *testing.T) {
	cat := testCatalog(t, "test-reconcile-match.db")
	album := seedAlbum(t, cat)

	server := reconcileServer(t, matchingRelease, "mb-release")
	defer server.Close()
	client := testClient(server)
	defer client.Close()

	reconciler := NewReconciler(ReconcilerConfig{Catalog: cat, Client: client})

	matched, err := reconciler.ReconcileAlbum(context.Background(), album)
	if err != nil {
		t.Fatalf("ReconcileAlbum failed: %v", err)
	}
	if !matched {
		t.Fatal("expected a match")
	}

	updated, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.MusicBrainzID.String != "mb-release" {
		t.Errorf("album mbid = %q", updated.MusicBrainzID.String)
	}
	if updated.MusicBrainzGroupID.String != "mb-group" {
		t.Errorf("album group id = %q", updated.MusicBrainzGroupID.String)
	}
	if updated.Year.Int64 != 1985 {
		t.Errorf("album year = %d", updated.Year.Int64)
	}

	tracks, err := cat.AlbumTracks(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].MusicBrainzID.String != "mb-singapore" {
		t.Errorf("track mbid = %q", tracks[0].MusicBrainzID.String)
	}
	if tracks[0].DurationSec.Int64 != 166 {
		t.Errorf("track duration = %d", tracks[0].DurationSec.Int64)
	}
}

func TestReconcileAlbumBelowThreshold(t *testing.T) {
	cat := testCatalog(t, "test-reconcile-miss.db")
	album := seedAlbum(t, cat)

	server := reconcileServer(t, unrelatedRelease, "mb-other")
	defer server.Close()
	client := testClient(server)
	defer client.Close()

	reconciler := NewReconciler(ReconcilerConfig{Catalog: cat, Client: client})

	matched, err := reconciler.ReconcileAlbum(context.Background(), album)
	if err != nil {
		t.Fatalf("ReconcileAlbum failed: %v", err)
	}
	if matched {
		t.Fatal("expected no match")
	}

	updated, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Empty string marks "looked up, nothing acceptable found"
	if !updated.MusicBrainzID.Valid || updated.MusicBrainzID.String != "" {
		t.Errorf("album mbid = %+v, want unresolved sentinel", updated.MusicBrainzID)
	}
}

func TestReconcileAlbumNoResults(t *testing.T) {
	cat := testCatalog(t, "test-reconcile-empty.db")
	album := seedAlbum(t, cat)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"releases": []}`)
	}))
	defer server.Close()
	client := testClient(server)
	defer client.Close()

	reconciler := NewReconciler(ReconcilerConfig{Catalog: cat, Client: client})

	matched, err := reconciler.ReconcileAlbum(context.Background(), album)
	if err != nil {
		t.Fatalf("ReconcileAlbum failed: %v", err)
	}
	if matched {
		t.Fatal("expected no match")
	}

	updated, err := cat.GetAlbum(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.MusicBrainzID.Valid || updated.MusicBrainzID.String != "" {
		t.Errorf("album mbid = %+v, want unresolved sentinel", updated.MusicBrainzID)
	}
}
