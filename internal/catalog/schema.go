package catalog

// Schema v1 - Initial catalog schema
//
// Provenance id columns are NULL when a provider was never consulted and
// the empty string when it was consulted without an acceptable match.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artists (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  musicbrainz_id TEXT,
  spotify_id TEXT,
  discogs_id INTEGER
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_artists_name_nocase ON artists(name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS albums (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  year INTEGER,
  medium TEXT,
  is_compilation INTEGER NOT NULL DEFAULT 0,
  musicbrainz_id TEXT,
  musicbrainz_group_id TEXT,
  spotify_id TEXT,
  discogs_id INTEGER
);

CREATE INDEX IF NOT EXISTS idx_albums_title_nocase ON albums(title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_albums_discogs_id ON albums(discogs_id);
CREATE INDEX IF NOT EXISTS idx_albums_musicbrainz_id ON albums(musicbrainz_id);

CREATE TABLE IF NOT EXISTS tracks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  album_id INTEGER REFERENCES albums(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  disc_number INTEGER,
  track_number INTEGER,
  year INTEGER,
  duration_sec INTEGER,
  file_path TEXT,
  file_hash TEXT,
  play_count INTEGER,
  musicbrainz_id TEXT,
  spotify_id TEXT,
  discogs_id INTEGER
);

-- (album_id, disc_number, track_number) is the upsert natural key, enforced
-- by lookup-before-insert; the overwrite merge renumbers tracks in place,
-- which a unique index would reject mid-update
CREATE INDEX IF NOT EXISTS idx_tracks_position
  ON tracks(album_id, disc_number, track_number);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tracks_file_path
  ON tracks(file_path) WHERE file_path IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_tracks_title_nocase ON tracks(title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_tracks_musicbrainz_id ON tracks(musicbrainz_id);

-- Ordered artist credits; join_phrase is the glue between consecutive names
CREATE TABLE IF NOT EXISTS album_artists (
  album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
  artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
  position INTEGER NOT NULL DEFAULT 0,
  join_phrase TEXT NOT NULL DEFAULT '/',
  PRIMARY KEY (album_id, artist_id)
);

CREATE INDEX IF NOT EXISTS idx_album_artists_artist ON album_artists(artist_id);

CREATE TABLE IF NOT EXISTS track_artists (
  track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
  artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
  position INTEGER NOT NULL DEFAULT 0,
  join_phrase TEXT NOT NULL DEFAULT '/',
  PRIMARY KEY (track_id, artist_id)
);

CREATE INDEX IF NOT EXISTS idx_track_artists_artist ON track_artists(artist_id);

-- Curated reference data, imported from the MusicBrainz genre list
CREATE TABLE IF NOT EXISTS genres (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_genres_name_nocase ON genres(name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS album_genres (
  album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
  genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
  PRIMARY KEY (album_id, genre_id)
);

CREATE TABLE IF NOT EXISTS track_genres (
  track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
  genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
  PRIMARY KEY (track_id, genre_id)
);
`
