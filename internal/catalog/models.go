package catalog

import (
	"database/sql"
	"strings"
)

// Medium is the distribution channel an album was ingested from. The same
// conceptual release on different media is kept as separate catalog rows.
type Medium string

const (
	MediumCD        Medium = "CD"
	MediumVinyl     Medium = "VIN"
	MediumFile      Medium = "FIL"
	MediumStreaming Medium = "STR"
)

// Artist is identified by its case-insensitive unique name
type Artist struct {
	ID            int64
	Name          string
	MusicBrainzID sql.NullString
	SpotifyID     sql.NullString
	DiscogsID     sql.NullInt64
}

// Album owns its tracks and carries ordered artist credits unless it is a
// compilation, in which case no album-level credit set is meaningful.
type Album struct {
	ID                 int64
	Title              string
	Year               sql.NullInt64
	Medium             sql.NullString
	IsCompilation      bool
	MusicBrainzID      sql.NullString
	MusicBrainzGroupID sql.NullString
	SpotifyID          sql.NullString
	DiscogsID          sql.NullInt64
}

// Track belongs to zero or one album; (album_id, disc_number, track_number)
// is its natural key, file_path a secondary one for local files.
type Track struct {
	ID            int64
	AlbumID       sql.NullInt64
	Title         string
	DiscNumber    sql.NullInt64
	TrackNumber   sql.NullInt64
	Year          sql.NullInt64
	DurationSec   sql.NullInt64
	FilePath      sql.NullString
	FileHash      sql.NullString
	PlayCount     sql.NullInt64
	MusicBrainzID sql.NullString
	SpotifyID     sql.NullString
	DiscogsID     sql.NullInt64
}

// ArtistCredit is one row of an ordered credit list, joined with the
// credited artist's name
type ArtistCredit struct {
	ArtistID   int64
	Name       string
	Position   int
	JoinPhrase string
}

// Genre is curated reference data
type Genre struct {
	ID   int64
	Name string
}

// CreditString renders an ordered credit list the way it is displayed:
// names glued with each credit's join phrase ("A / B", "A feat. B").
func CreditString(credits []ArtistCredit) string {
	var b strings.Builder
	for idx, credit := range credits {
		b.WriteString(credit.Name)
		if idx < len(credits)-1 {
			phrase := strings.TrimSpace(credit.JoinPhrase)
			if phrase == "" {
				phrase = "/"
			}
			b.WriteString(" " + phrase + " ")
		}
	}
	return b.String()
}

// NullString returns a valid sql.NullString, treating "" as a real value
// (the "looked up, unresolved" sentinel), never as NULL
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// NullInt returns a valid sql.NullInt64
func NullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}
