package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/franz/record-collection/internal/util"
)

// AlbumFilter is the matching filter an incoming candidate is resolved
// against. Title is required; the remaining fields narrow the match.
type AlbumFilter struct {
	Title       string   // case-insensitive exact title
	Medium      Medium   // restrict to this medium when set
	Compilation bool     // restrict to compilation rows
	ArtistNames []string // OR across case-insensitive artist names (non-compilations)
	SpotifyID   string   // when set, row must have no spotify id or this one
}

const albumColumns = `id, title, year, medium, is_compilation,
	musicbrainz_id, musicbrainz_group_id, spotify_id, discogs_id`

func scanAlbum(row interface{ Scan(...any) error }) (*Album, error) {
	a := &Album{}
	err := row.Scan(&a.ID, &a.Title, &a.Year, &a.Medium, &a.IsCompilation,
		&a.MusicBrainzID, &a.MusicBrainzGroupID, &a.SpotifyID, &a.DiscogsID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAlbum retrieves an album by id
func (c *Catalog) GetAlbum(id int64) (*Album, error) {
	a, err := scanAlbum(c.db.QueryRow(
		"SELECT "+albumColumns+" FROM albums WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("album %d: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// FindAlbum returns the first album matching the filter in stable id order,
// or nil when none matches
func (c *Catalog) FindAlbum(filter AlbumFilter) (*Album, error) {
	query := "SELECT " + albumColumns + " FROM albums WHERE title = ? COLLATE NOCASE"
	args := []any{filter.Title}

	if filter.Medium != "" {
		query += " AND medium = ?"
		args = append(args, string(filter.Medium))
	}
	if filter.SpotifyID != "" {
		query += " AND (spotify_id IS NULL OR spotify_id = ?)"
		args = append(args, filter.SpotifyID)
	}
	if filter.Compilation {
		query += " AND is_compilation = 1"
	} else if len(filter.ArtistNames) > 0 {
		placeholders := make([]string, len(filter.ArtistNames))
		for i, name := range filter.ArtistNames {
			placeholders[i] = "?"
			args = append(args, name)
		}
		query += ` AND EXISTS (
			SELECT 1 FROM album_artists aa
			JOIN artists ar ON ar.id = aa.artist_id
			WHERE aa.album_id = albums.id
			  AND ar.name COLLATE NOCASE IN (` + strings.Join(placeholders, ", ") + `))`
	}

	query += " ORDER BY id LIMIT 1"

	a, err := scanAlbum(c.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find album: %w", err)
	}
	return a, nil
}

// InsertAlbum creates a new album row and sets a.ID
func (c *Catalog) InsertAlbum(a *Album) error {
	result, err := c.db.Exec(`
		INSERT INTO albums (title, year, medium, is_compilation,
			musicbrainz_id, musicbrainz_group_id, spotify_id, discogs_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Year, a.Medium, a.IsCompilation,
		a.MusicBrainzID, a.MusicBrainzGroupID, a.SpotifyID, a.DiscogsID)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get album ID: %w", err)
	}

	return nil
}

// UpdateAlbum writes every scalar field of an album row. Field-level merge
// policy (what may overwrite what) is the resolver's responsibility.
func (c *Catalog) UpdateAlbum(a *Album) error {
	_, err := c.db.Exec(`
		UPDATE albums SET title = ?, year = ?, medium = ?, is_compilation = ?,
			musicbrainz_id = ?, musicbrainz_group_id = ?, spotify_id = ?, discogs_id = ?
		WHERE id = ?
	`, a.Title, a.Year, a.Medium, a.IsCompilation,
		a.MusicBrainzID, a.MusicBrainzGroupID, a.SpotifyID, a.DiscogsID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	return nil
}

// AlbumTracks returns an album's tracks ordered by disc and track number
func (c *Catalog) AlbumTracks(albumID int64) ([]*Track, error) {
	rows, err := c.db.Query(`
		SELECT `+trackColumns+` FROM tracks
		WHERE album_id = ?
		ORDER BY disc_number, track_number
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query album tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}

// AlbumsForReconcile lists albums for a provider reconciliation pass.
// By default only never-looked-up albums (musicbrainz_id IS NULL) are
// returned; retry includes the '' sentinel rows, total includes everything.
func (c *Catalog) AlbumsForReconcile(retry, total bool) ([]*Album, error) {
	query := "SELECT " + albumColumns + " FROM albums"
	if !total {
		if retry {
			query += " WHERE musicbrainz_id IS NULL OR musicbrainz_id = ''"
		} else {
			query += " WHERE musicbrainz_id IS NULL"
		}
	}
	query += " ORDER BY id"

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}

	return albums, rows.Err()
}

// AlbumDiscogsIDs returns the discogs ids already present in the catalog
func (c *Catalog) AlbumDiscogsIDs() ([]int64, error) {
	rows, err := c.db.Query("SELECT discogs_id FROM albums WHERE discogs_id IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query discogs ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteAlbumsNotInDiscogsIDs removes albums whose discogs id is no longer
// part of the remote collection. Albums without a discogs id are untouched.
func (c *Catalog) DeleteAlbumsNotInDiscogsIDs(keep []int64) (int64, error) {
	query := "DELETE FROM albums WHERE discogs_id IS NOT NULL"
	var args []any
	if len(keep) > 0 {
		placeholders := make([]string, len(keep))
		for i, id := range keep {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " AND discogs_id NOT IN (" + strings.Join(placeholders, ", ") + ")"
	}

	result, err := c.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete albums: %w", err)
	}
	return result.RowsAffected()
}

// AlbumSpotifyIDs returns the spotify ids already present in the catalog,
// the '' sentinel excluded
func (c *Catalog) AlbumSpotifyIDs() ([]string, error) {
	rows, err := c.db.Query("SELECT spotify_id FROM albums WHERE spotify_id IS NOT NULL AND spotify_id != ''")
	if err != nil {
		return nil, fmt.Errorf("failed to query spotify ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteAlbumsNotInSpotifyIDs removes albums whose spotify id is no longer
// part of the user's saved albums. Albums without a spotify id are untouched.
func (c *Catalog) DeleteAlbumsNotInSpotifyIDs(keep []string) (int64, error) {
	query := "DELETE FROM albums WHERE spotify_id IS NOT NULL AND spotify_id != ''"
	var args []any
	if len(keep) > 0 {
		placeholders := make([]string, len(keep))
		for i, id := range keep {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += " AND spotify_id NOT IN (" + strings.Join(placeholders, ", ") + ")"
	}

	result, err := c.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete albums: %w", err)
	}
	return result.RowsAffected()
}

// DeleteAlbumsWithoutTracks removes those of the given albums left with no
// tracks at all
func (c *Catalog) DeleteAlbumsWithoutTracks(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	result, err := c.db.Exec(`
		DELETE FROM albums
		WHERE id IN (`+strings.Join(placeholders, ", ")+`)
		  AND id NOT IN (SELECT album_id FROM tracks WHERE album_id IS NOT NULL)
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty albums: %w", err)
	}
	return result.RowsAffected()
}

// CountAlbums returns the number of album rows
func (c *Catalog) CountAlbums() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM albums").Scan(&n)
	return n, err
}
