package spotify

import (
	"strings"
	"time"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// Artist is a Spotify artist reference
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track is an album tracklist entry with explicit disc and track numbers
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DiscNumber  int      `json:"disc_number"`
	TrackNumber int      `json:"track_number"`
	DurationMS  int      `json:"duration_ms"`
	Artists     []Artist `json:"artists"`
}

// TracksPage is one page of an album's tracklist
type TracksPage struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
	Next  string  `json:"next"`
}

// Album is a full album object
type Album struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	AlbumType   string     `json:"album_type"`
	ReleaseDate string     `json:"release_date"`
	TotalTracks int        `json:"total_tracks"`
	Artists     []Artist   `json:"artists"`
	Genres      []string   `json:"genres"`
	Tracks      TracksPage `json:"tracks"`
}

// SavedAlbum is one entry of the user's saved album listing
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   Album     `json:"album"`
}

// SavedAlbumsPage is one page of the user's saved album listing
type SavedAlbumsPage struct {
	Items []SavedAlbum `json:"items"`
	Total int          `json:"total"`
	Limit int          `json:"limit"`
	Next  string       `json:"next"`
}

// IsCompilation reports whether the album is a true various-artists
// compilation. Spotify flags some single-artist releases as
// "compilation", so the credit list has to agree.
func (a *Album) IsCompilation() bool {
	if a.AlbumType != "compilation" {
		return false
	}
	for _, artist := range a.Artists {
		if artist.Name == "Various Artists" {
			return true
		}
	}
	return false
}

func credits(artists []Artist) []resolve.ArtistCandidate {
	out := make([]resolve.ArtistCandidate, 0, len(artists))
	for _, artist := range artists {
		out = append(out, resolve.ArtistCandidate{
			Name:       artist.Name,
			Provenance: resolve.Provenance{SpotifyID: artist.ID},
		})
	}
	return out
}

// Candidate converts the album to an album candidate. The tracklist must
// be complete; fetch continuation pages first. Track years are only set
// for non-compilations, where the album release year applies to each
// recording.
func (a *Album) Candidate() *resolve.AlbumCandidate {
	year := util.YearFromDate(a.ReleaseDate)
	isCompilation := a.IsCompilation()

	cand := &resolve.AlbumCandidate{
		Title:         strings.TrimSpace(a.Name),
		Year:          year,
		Medium:        catalog.MediumStreaming,
		IsCompilation: isCompilation,
		Artists:       credits(a.Artists),
		Genres:        a.Genres,
		Provenance:    resolve.Provenance{SpotifyID: a.ID},
	}

	trackYear := year
	if isCompilation {
		trackYear = 0
	}

	for _, track := range a.Tracks.Items {
		cand.Tracks = append(cand.Tracks, resolve.TrackCandidate{
			Title:       strings.TrimSpace(track.Name),
			DiscNumber:  track.DiscNumber,
			TrackNumber: track.TrackNumber,
			Year:        trackYear,
			Duration:    time.Duration(track.DurationMS) * time.Millisecond,
			Artists:     credits(track.Artists),
			Provenance:  resolve.Provenance{SpotifyID: track.ID},
		})
	}

	return cand
}
