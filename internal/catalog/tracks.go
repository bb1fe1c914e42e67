package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/franz/record-collection/internal/util"
)

const trackColumns = `id, album_id, title, disc_number, track_number, year,
	duration_sec, file_path, file_hash, play_count,
	musicbrainz_id, spotify_id, discogs_id`

func scanTrack(row interface{ Scan(...any) error }) (*Track, error) {
	t := &Track{}
	err := row.Scan(&t.ID, &t.AlbumID, &t.Title, &t.DiscNumber, &t.TrackNumber,
		&t.Year, &t.DurationSec, &t.FilePath, &t.FileHash, &t.PlayCount,
		&t.MusicBrainzID, &t.SpotifyID, &t.DiscogsID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTrack retrieves a track by id
func (c *Catalog) GetTrack(id int64) (*Track, error) {
	t, err := scanTrack(c.db.QueryRow(
		"SELECT "+trackColumns+" FROM tracks WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track %d: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return t, nil
}

// FindTrackByPosition retrieves a track by its natural key
// (album, disc number, track number)
func (c *Catalog) FindTrackByPosition(albumID int64, disc, track int) (*Track, error) {
	t, err := scanTrack(c.db.QueryRow(`
		SELECT `+trackColumns+` FROM tracks
		WHERE album_id = ? AND disc_number = ? AND track_number = ?
	`, albumID, disc, track))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find track: %w", err)
	}
	return t, nil
}

// FindTrackByFilePath retrieves a track by its file path
func (c *Catalog) FindTrackByFilePath(path string) (*Track, error) {
	t, err := scanTrack(c.db.QueryRow(
		"SELECT "+trackColumns+" FROM tracks WHERE file_path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find track: %w", err)
	}
	return t, nil
}

// InsertTrack creates a new track row and sets t.ID
func (c *Catalog) InsertTrack(t *Track) error {
	result, err := c.db.Exec(`
		INSERT INTO tracks (album_id, title, disc_number, track_number, year,
			duration_sec, file_path, file_hash, play_count,
			musicbrainz_id, spotify_id, discogs_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.AlbumID, t.Title, t.DiscNumber, t.TrackNumber, t.Year,
		t.DurationSec, t.FilePath, t.FileHash, t.PlayCount,
		t.MusicBrainzID, t.SpotifyID, t.DiscogsID)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	t.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get track ID: %w", err)
	}

	return nil
}

// UpdateTrack writes every scalar field of a track row
func (c *Catalog) UpdateTrack(t *Track) error {
	_, err := c.db.Exec(`
		UPDATE tracks SET album_id = ?, title = ?, disc_number = ?, track_number = ?,
			year = ?, duration_sec = ?, file_path = ?, file_hash = ?, play_count = ?,
			musicbrainz_id = ?, spotify_id = ?, discogs_id = ?
		WHERE id = ?
	`, t.AlbumID, t.Title, t.DiscNumber, t.TrackNumber,
		t.Year, t.DurationSec, t.FilePath, t.FileHash, t.PlayCount,
		t.MusicBrainzID, t.SpotifyID, t.DiscogsID, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	return nil
}

// TracksByMusicBrainzID retrieves all tracks with the given recording id
func (c *Catalog) TracksByMusicBrainzID(mbid string) ([]*Track, error) {
	return c.queryTracks(
		"SELECT "+trackColumns+" FROM tracks WHERE musicbrainz_id = ?", mbid)
}

// TracksByArtistMBIDAndTitle retrieves tracks with a case-insensitive title
// whose own or album artists carry the given MusicBrainz artist id
func (c *Catalog) TracksByArtistMBIDAndTitle(artistMBID, title string) ([]*Track, error) {
	return c.queryTracks(`
		SELECT `+trackColumns+` FROM tracks
		WHERE title = ? COLLATE NOCASE
		  AND (EXISTS (
				SELECT 1 FROM track_artists ta JOIN artists ar ON ar.id = ta.artist_id
				WHERE ta.track_id = tracks.id AND ar.musicbrainz_id = ?)
			OR EXISTS (
				SELECT 1 FROM album_artists aa JOIN artists ar ON ar.id = aa.artist_id
				WHERE aa.album_id = tracks.album_id AND ar.musicbrainz_id = ?))
	`, title, artistMBID, artistMBID)
}

// TracksByArtistNameAndTitle retrieves tracks with a case-insensitive title
// whose own or album artists carry the given name
func (c *Catalog) TracksByArtistNameAndTitle(artistName, title string) ([]*Track, error) {
	return c.queryTracks(`
		SELECT `+trackColumns+` FROM tracks
		WHERE title = ? COLLATE NOCASE
		  AND (EXISTS (
				SELECT 1 FROM track_artists ta JOIN artists ar ON ar.id = ta.artist_id
				WHERE ta.track_id = tracks.id AND ar.name = ? COLLATE NOCASE)
			OR EXISTS (
				SELECT 1 FROM album_artists aa JOIN artists ar ON ar.id = aa.artist_id
				WHERE aa.album_id = tracks.album_id AND ar.name = ? COLLATE NOCASE))
	`, title, artistName, artistName)
}

func (c *Catalog) queryTracks(query string, args ...any) ([]*Track, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
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

// UpdateTrackPlayCount writes the scrobble count (and recording id, when
// known) onto a track row. Only the scrobble provider writes play_count.
func (c *Catalog) UpdateTrackPlayCount(trackID int64, playCount int64, mbid string) error {
	if mbid != "" {
		_, err := c.db.Exec(
			"UPDATE tracks SET play_count = ?, musicbrainz_id = ? WHERE id = ?",
			playCount, mbid, trackID)
		if err != nil {
			return fmt.Errorf("failed to update play count: %w", err)
		}
		return nil
	}

	_, err := c.db.Exec("UPDATE tracks SET play_count = ? WHERE id = ?", playCount, trackID)
	if err != nil {
		return fmt.Errorf("failed to update play count: %w", err)
	}
	return nil
}

// ExistingFilePaths returns every file path already known to the catalog
func (c *Catalog) ExistingFilePaths() (map[string]bool, error) {
	rows, err := c.db.Query("SELECT file_path FROM tracks WHERE file_path IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query file paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]bool)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths[path] = true
	}

	return paths, rows.Err()
}

// DeleteTracksNotInFilePaths removes file-backed tracks whose path was not
// seen by the scan, returning the ids of the albums they belonged to
func (c *Catalog) DeleteTracksNotInFilePaths(seen map[string]bool) (int64, []int64, error) {
	rows, err := c.db.Query("SELECT id, album_id, file_path FROM tracks WHERE file_path IS NOT NULL")
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query tracks: %w", err)
	}

	var doomed []int64
	var albumIDs []int64
	for rows.Next() {
		var id int64
		var albumID sql.NullInt64
		var path string
		if err := rows.Scan(&id, &albumID, &path); err != nil {
			rows.Close()
			return 0, nil, err
		}
		if !seen[path] {
			doomed = append(doomed, id)
			if albumID.Valid {
				albumIDs = append(albumIDs, albumID.Int64)
			}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, err
	}

	if len(doomed) == 0 {
		return 0, nil, nil
	}

	placeholders := make([]string, len(doomed))
	args := make([]any, len(doomed))
	for i, id := range doomed {
		placeholders[i] = "?"
		args[i] = id
	}

	result, err := c.db.Exec(
		"DELETE FROM tracks WHERE id IN ("+strings.Join(placeholders, ", ")+")", args...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete tracks: %w", err)
	}

	deleted, err := result.RowsAffected()
	return deleted, albumIDs, err
}

// CountTracks returns the number of track rows
func (c *Catalog) CountTracks() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&n)
	return n, err
}
