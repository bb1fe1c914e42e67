package catalog

import (
	"database/sql"
	"fmt"
)

// FindArtistByName retrieves an artist by case-insensitive exact name match
func (c *Catalog) FindArtistByName(name string) (*Artist, error) {
	a := &Artist{}
	err := c.db.QueryRow(`
		SELECT id, name, musicbrainz_id, spotify_id, discogs_id
		FROM artists WHERE name = ? COLLATE NOCASE
	`, name).Scan(&a.ID, &a.Name, &a.MusicBrainzID, &a.SpotifyID, &a.DiscogsID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find artist: %w", err)
	}

	return a, nil
}

// InsertArtist creates a new artist row and sets a.ID
func (c *Catalog) InsertArtist(a *Artist) error {
	result, err := c.db.Exec(`
		INSERT INTO artists (name, musicbrainz_id, spotify_id, discogs_id)
		VALUES (?, ?, ?, ?)
	`, a.Name, a.MusicBrainzID, a.SpotifyID, a.DiscogsID)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get artist ID: %w", err)
	}

	return nil
}

// UpdateArtistProvenance refreshes the stable external ids on an artist row
func (c *Catalog) UpdateArtistProvenance(a *Artist) error {
	_, err := c.db.Exec(`
		UPDATE artists SET musicbrainz_id = ?, spotify_id = ?, discogs_id = ?
		WHERE id = ?
	`, a.MusicBrainzID, a.SpotifyID, a.DiscogsID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}
	return nil
}

// AlbumArtistCredits returns an album's ordered artist credit list
func (c *Catalog) AlbumArtistCredits(albumID int64) ([]ArtistCredit, error) {
	return c.creditList(`
		SELECT aa.artist_id, ar.name, aa.position, aa.join_phrase
		FROM album_artists aa JOIN artists ar ON ar.id = aa.artist_id
		WHERE aa.album_id = ?
		ORDER BY aa.position
	`, albumID)
}

// TrackArtistCredits returns a track's ordered artist credit list
func (c *Catalog) TrackArtistCredits(trackID int64) ([]ArtistCredit, error) {
	return c.creditList(`
		SELECT ta.artist_id, ar.name, ta.position, ta.join_phrase
		FROM track_artists ta JOIN artists ar ON ar.id = ta.artist_id
		WHERE ta.track_id = ?
		ORDER BY ta.position
	`, trackID)
}

func (c *Catalog) creditList(query string, id int64) ([]ArtistCredit, error) {
	rows, err := c.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	defer rows.Close()

	var credits []ArtistCredit
	for rows.Next() {
		var credit ArtistCredit
		if err := rows.Scan(&credit.ArtistID, &credit.Name, &credit.Position, &credit.JoinPhrase); err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credits = append(credits, credit)
	}

	return credits, rows.Err()
}

// UpsertAlbumArtist writes one ordered album credit row, keyed by
// (album, artist)
func (c *Catalog) UpsertAlbumArtist(albumID, artistID int64, position int, joinPhrase string) error {
	_, err := c.db.Exec(`
		INSERT INTO album_artists (album_id, artist_id, position, join_phrase)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(album_id, artist_id) DO UPDATE SET
			position = excluded.position,
			join_phrase = excluded.join_phrase
	`, albumID, artistID, position, joinPhrase)
	if err != nil {
		return fmt.Errorf("failed to upsert album artist: %w", err)
	}
	return nil
}

// UpsertTrackArtist writes one ordered track credit row, keyed by
// (track, artist)
func (c *Catalog) UpsertTrackArtist(trackID, artistID int64, position int, joinPhrase string) error {
	_, err := c.db.Exec(`
		INSERT INTO track_artists (track_id, artist_id, position, join_phrase)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(track_id, artist_id) DO UPDATE SET
			position = excluded.position,
			join_phrase = excluded.join_phrase
	`, trackID, artistID, position, joinPhrase)
	if err != nil {
		return fmt.Errorf("failed to upsert track artist: %w", err)
	}
	return nil
}

// ClearAlbumArtists removes an album's whole credit list
func (c *Catalog) ClearAlbumArtists(albumID int64) error {
	_, err := c.db.Exec("DELETE FROM album_artists WHERE album_id = ?", albumID)
	if err != nil {
		return fmt.Errorf("failed to clear album artists: %w", err)
	}
	return nil
}

// ClearTrackArtists removes a track's whole credit list
func (c *Catalog) ClearTrackArtists(trackID int64) error {
	_, err := c.db.Exec("DELETE FROM track_artists WHERE track_id = ?", trackID)
	if err != nil {
		return fmt.Errorf("failed to clear track artists: %w", err)
	}
	return nil
}

// DeleteOrphanArtists removes artists left with no album and no track
// credit. Runs once after a batch, not per row.
func (c *Catalog) DeleteOrphanArtists() (int64, error) {
	result, err := c.db.Exec(`
		DELETE FROM artists
		WHERE id NOT IN (SELECT artist_id FROM album_artists)
		  AND id NOT IN (SELECT artist_id FROM track_artists)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan artists: %w", err)
	}
	return result.RowsAffected()
}

// CountArtists returns the number of artist rows
func (c *Catalog) CountArtists() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM artists").Scan(&n)
	return n, err
}
