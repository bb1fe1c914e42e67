package musicbrainz

import (
	"time"

	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// ReleaseStub is a release search result entry
type ReleaseStub struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

type releaseSearchResult struct {
	Releases []ReleaseStub `json:"releases"`
}

// ArtistCredit is one entry of a MusicBrainz artist credit list
type ArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
}

// Genre is a MusicBrainz genre tag
type Genre struct {
	Name string `json:"name"`
}

// Track is one track of a release medium
type Track struct {
	ID           string         `json:"id"`
	Position     int            `json:"position"`
	Number       string         `json:"number"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Recording    struct {
		ID               string  `json:"id"`
		Length           int     `json:"length"`
		FirstReleaseDate string  `json:"first-release-date"`
		Genres           []Genre `json:"genres"`
	} `json:"recording"`
}

// Medium is one physical or logical disc of a release
type Medium struct {
	Position int     `json:"position"`
	Format   string  `json:"format"`
	Tracks   []Track `json:"tracks"`
}

// ReleaseGroup carries the release group a release belongs to
type ReleaseGroup struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	FirstReleaseDate string  `json:"first-release-date"`
	Genres           []Genre `json:"genres"`
}

// Release is a full release lookup result
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Date         string         `json:"date"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	ReleaseGroup ReleaseGroup   `json:"release-group"`
	Media        []Medium       `json:"media"`
	Genres       []Genre        `json:"genres"`
}

func credits(list []ArtistCredit) []resolve.ArtistCandidate {
	out := make([]resolve.ArtistCandidate, 0, len(list))
	for _, credit := range list {
		name := credit.Artist.Name
		if name == "" {
			name = credit.Name
		}
		out = append(out, resolve.ArtistCandidate{
			Name:       name,
			JoinPhrase: credit.JoinPhrase,
			Provenance: resolve.Provenance{MusicBrainzID: credit.Artist.ID},
		})
	}
	return out
}

// Candidate converts a release to an album candidate. Track years come
// from the recording's first release date, the album year from the
// release group's.
func (r *Release) Candidate() *resolve.AlbumCandidate {
	cand := &resolve.AlbumCandidate{
		Title:   r.Title,
		Year:    util.YearFromDate(r.ReleaseGroup.FirstReleaseDate),
		Artists: credits(r.ArtistCredit),
		Provenance: resolve.Provenance{
			MusicBrainzID:      r.ID,
			MusicBrainzGroupID: r.ReleaseGroup.ID,
		},
	}
	if cand.Year == 0 {
		cand.Year = util.YearFromDate(r.Date)
	}

	seen := map[string]bool{}
	addGenres := func(list []Genre) []string {
		var names []string
		for _, g := range list {
			if g.Name == "" {
				continue
			}
			names = append(names, g.Name)
			if !seen[g.Name] {
				seen[g.Name] = true
				cand.Genres = append(cand.Genres, g.Name)
			}
		}
		return names
	}
	addGenres(r.Genres)
	addGenres(r.ReleaseGroup.Genres)

	for _, medium := range r.Media {
		for _, track := range medium.Tracks {
			length := track.Length
			if length == 0 {
				length = track.Recording.Length
			}
			cand.Tracks = append(cand.Tracks, resolve.TrackCandidate{
				Title:       track.Title,
				DiscNumber:  medium.Position,
				TrackNumber: track.Position,
				Year:        util.YearFromDate(track.Recording.FirstReleaseDate),
				Duration:    time.Duration(length) * time.Millisecond,
				Artists:     credits(track.ArtistCredit),
				Genres:      addGenres(track.Recording.Genres),
				Provenance:  resolve.Provenance{MusicBrainzID: track.Recording.ID},
			})
		}
	}

	return cand
}
