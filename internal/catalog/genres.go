package catalog

import (
	"fmt"
	"strings"
)

// AllGenres returns the full curated genre list
func (c *Catalog) AllGenres() ([]Genre, error) {
	rows, err := c.db.Query("SELECT id, name FROM genres ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}

	return genres, rows.Err()
}

// UpsertGenre writes one curated genre name, matching case-insensitively
// and refreshing the stored casing when it changed
func (c *Catalog) UpsertGenre(name string) error {
	_, err := c.db.Exec(`
		INSERT INTO genres (name) VALUES (?)
		ON CONFLICT(name COLLATE NOCASE) DO UPDATE SET name = excluded.name
		WHERE name != excluded.name
	`, name)
	if err != nil {
		return fmt.Errorf("failed to upsert genre: %w", err)
	}
	return nil
}

// genreIDsByNames matches candidate genre names case-insensitively against
// the curated genre table. Unknown names are silently dropped; no genre
// rows are created outside the reference import.
func (c *Catalog) genreIDsByNames(names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = strings.ToLower(name)
	}

	rows, err := c.db.Query(
		"SELECT id FROM genres WHERE lower(name) IN ("+strings.Join(placeholders, ", ")+")",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
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

// AttachAlbumGenres links an album to every known genre among the given
// names. Best effort: unmatched names are dropped.
func (c *Catalog) AttachAlbumGenres(albumID int64, names []string) error {
	ids, err := c.genreIDsByNames(names)
	if err != nil {
		return err
	}
	for _, genreID := range ids {
		_, err := c.db.Exec(`
			INSERT INTO album_genres (album_id, genre_id) VALUES (?, ?)
			ON CONFLICT(album_id, genre_id) DO NOTHING
		`, albumID, genreID)
		if err != nil {
			return fmt.Errorf("failed to attach album genre: %w", err)
		}
	}
	return nil
}

// AttachTrackGenres links a track to every known genre among the given names
func (c *Catalog) AttachTrackGenres(trackID int64, names []string) error {
	ids, err := c.genreIDsByNames(names)
	if err != nil {
		return err
	}
	for _, genreID := range ids {
		_, err := c.db.Exec(`
			INSERT INTO track_genres (track_id, genre_id) VALUES (?, ?)
			ON CONFLICT(track_id, genre_id) DO NOTHING
		`, trackID, genreID)
		if err != nil {
			return fmt.Errorf("failed to attach track genre: %w", err)
		}
	}
	return nil
}

// AlbumGenreNames returns an album's attached genre names
func (c *Catalog) AlbumGenreNames(albumID int64) ([]string, error) {
	return c.genreNames(`
		SELECT g.name FROM genres g
		JOIN album_genres ag ON ag.genre_id = g.id
		WHERE ag.album_id = ?
		ORDER BY g.name COLLATE NOCASE
	`, albumID)
}

// TrackGenreNames returns a track's attached genre names
func (c *Catalog) TrackGenreNames(trackID int64) ([]string, error) {
	return c.genreNames(`
		SELECT g.name FROM genres g
		JOIN track_genres tg ON tg.genre_id = g.id
		WHERE tg.track_id = ?
		ORDER BY g.name COLLATE NOCASE
	`, trackID)
}

func (c *Catalog) genreNames(query string, id int64) ([]string, error) {
	rows, err := c.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
