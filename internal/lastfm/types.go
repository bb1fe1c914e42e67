package lastfm

import "github.com/franz/record-collection/internal/util"

// Last.fm encodes numbers as JSON strings throughout

// TopTrack is one entry of a user's top track listing
type TopTrack struct {
	Name      string `json:"name"`
	MBID      string `json:"mbid"`
	PlayCount string `json:"playcount"`
	Duration  string `json:"duration"`
	Artist    struct {
		Name string `json:"name"`
		MBID string `json:"mbid"`
	} `json:"artist"`
}

// Plays returns the play count as an integer
func (t *TopTrack) Plays() int64 {
	return int64(util.IntOrZero(t.PlayCount))
}

type pageAttr struct {
	Page       string `json:"page"`
	TotalPages string `json:"totalPages"`
	Total      string `json:"total"`
}

// TopTracksPage is one page of a user's top track listing
type TopTracksPage struct {
	Tracks []TopTrack `json:"track"`
	Attr   pageAttr   `json:"@attr"`
}

// TotalPages returns the page count of the paginated listing
func (p *TopTracksPage) TotalPages() int {
	return util.IntOrZero(p.Attr.TotalPages)
}

type topTracksResponse struct {
	TopTracks TopTracksPage `json:"toptracks"`
}
