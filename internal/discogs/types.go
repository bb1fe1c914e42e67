package discogs

import (
	"strings"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// Pagination describes a paginated Discogs response
type Pagination struct {
	Items   int `json:"items"`
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
}

// CollectionRelease is one entry of a user's collection listing
type CollectionRelease struct {
	BasicInformation struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Year  int    `json:"year"`
	} `json:"basic_information"`
}

// CollectionPage is one page of a user's collection listing
type CollectionPage struct {
	Pagination Pagination          `json:"pagination"`
	Releases   []CollectionRelease `json:"releases"`
}

// Artist is a Discogs artist credit. Names carry a " (n)" disambiguation
// suffix which is stripped during resolution.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Join string `json:"join"`
	Role string `json:"role"`
}

// Format is a release format descriptor ("CD", "Vinyl", "Box Set", ...)
type Format struct {
	Name string `json:"name"`
	Qty  string `json:"qty"`
}

// Track is a tracklist entry. Position is a free-form token ("3", "1-2",
// "B1") and Duration a clock string ("4:37").
type Track struct {
	Position string   `json:"position"`
	Title    string   `json:"title"`
	Duration string   `json:"duration"`
	Artists  []Artist `json:"artists"`
}

// Release is a full release lookup result
type Release struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ArtistsSort string   `json:"artists_sort"`
	Artists     []Artist `json:"artists"`
	Formats     []Format `json:"formats"`
	Genres      []string `json:"genres"`
	Styles      []string `json:"styles"`
	Tracklist   []Track  `json:"tracklist"`
	Year        int      `json:"year"`
}

// Medium derives the catalog medium from the release formats. CD wins
// over Vinyl when both are present; anything else leaves it unset.
func (r *Release) Medium() catalog.Medium {
	for _, format := range r.Formats {
		if format.Name == "CD" {
			return catalog.MediumCD
		}
	}
	for _, format := range r.Formats {
		if format.Name == "Vinyl" {
			return catalog.MediumVinyl
		}
	}
	return ""
}

func credits(artists []Artist) []resolve.ArtistCandidate {
	out := make([]resolve.ArtistCandidate, 0, len(artists))
	for _, artist := range artists {
		out = append(out, resolve.ArtistCandidate{
			Name:       artist.Name,
			JoinPhrase: artist.Join,
			Provenance: resolve.Provenance{DiscogsID: artist.ID},
		})
	}
	return out
}

// Candidate converts a release to an album candidate. Track positions
// stay as raw tokens; disc and track numbers are inferred during
// resolution against the full sibling list.
func (r *Release) Candidate() *resolve.AlbumCandidate {
	cand := &resolve.AlbumCandidate{
		Title:         strings.TrimSpace(r.Title),
		Year:          r.Year,
		Medium:        r.Medium(),
		IsCompilation: strings.EqualFold(r.ArtistsSort, "various"),
		Artists:       credits(r.Artists),
		Genres:        append(append([]string{}, r.Genres...), r.Styles...),
		Provenance:    resolve.Provenance{DiscogsID: r.ID},
	}

	for _, track := range r.Tracklist {
		cand.Tracks = append(cand.Tracks, resolve.TrackCandidate{
			Title:    strings.TrimSpace(track.Title),
			Position: track.Position,
			Duration: util.ParseClockDuration(track.Duration),
			Artists:  credits(track.Artists),
		})
	}

	return cand
}
