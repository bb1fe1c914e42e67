// Package resolve implements the identity-resolution policy of the catalog:
// deciding whether an incoming candidate record is an artist, album or
// track already present, merging fields without clobbering known values,
// and recording provenance ids so re-runs converge on the same rows.
package resolve

import (
	"time"

	"github.com/franz/record-collection/internal/catalog"
)

// Provenance carries the external ids a candidate knows about itself.
// Zero values mean "not supplied"; the empty-string sentinel for "looked
// up, unresolved" is written only by the reconciliation pass, never through
// candidate provenance.
type Provenance struct {
	MusicBrainzID      string
	MusicBrainzGroupID string
	SpotifyID          string
	DiscogsID          int64
}

// ArtistCandidate is one entry of an ordered source credit list
type ArtistCandidate struct {
	Name       string
	JoinPhrase string // glue to the following name; "" means the default "/"
	Provenance Provenance
}

// TrackCandidate is a source's view of one track. Sources with explicit
// integer positions set DiscNumber/TrackNumber; sources with raw position
// tokens ("1-3", "A1") set Position and leave the integers zero.
type TrackCandidate struct {
	Title       string
	Position    string
	DiscNumber  int
	TrackNumber int
	Year        int
	Duration    time.Duration
	FilePath    string
	FileHash    string
	Artists     []ArtistCandidate
	Genres      []string
	Provenance  Provenance
}

// AlbumCandidate is a source's normalized view of one album
type AlbumCandidate struct {
	Title         string
	Year          int
	Medium        catalog.Medium // "" when the source does not imply one
	IsCompilation bool
	Artists       []ArtistCandidate
	Tracks        []TrackCandidate
	Genres        []string
	Provenance    Provenance
}

// ArtistNames returns the candidate's credited artist names, normalized the
// way they would be stored
func (c *AlbumCandidate) ArtistNames() []string {
	names := make([]string, 0, len(c.Artists))
	for _, artist := range c.Artists {
		if name := NormalizeArtistName(artist.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
