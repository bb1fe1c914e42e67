package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/util"
)

var discogsSuffixRe = regexp.MustCompile(` \(\d+\)$`)

// NormalizeArtistName strips the trailing " (n)" disambiguation suffix some
// sources append to same-named artists, and trims whitespace
func NormalizeArtistName(name string) string {
	return strings.TrimSpace(discogsSuffixRe.ReplaceAllString(name, ""))
}

// Resolver applies the identity-resolution policy against one catalog.
// All methods work on whatever transaction scope the catalog is bound to.
type Resolver struct {
	catalog *catalog.Catalog
}

// New creates a Resolver writing to the given catalog
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}

// ResolveArtist returns the catalog artist for a name, creating it on first
// reference. Lookup is by case-insensitive normalized name; supplied
// provenance ids that differ from the stored ones are refreshed — they are
// stable external keys, not quality judgments.
func (r *Resolver) ResolveArtist(name string, prov Provenance) (*catalog.Artist, error) {
	name = NormalizeArtistName(name)
	if name == "" {
		return nil, fmt.Errorf("artist name: %w", util.ErrMalformed)
	}

	artist, err := r.catalog.FindArtistByName(name)
	if err != nil {
		return nil, err
	}

	if artist == nil {
		artist = &catalog.Artist{Name: name}
		applyArtistProvenance(artist, prov)
		if err := r.catalog.InsertArtist(artist); err != nil {
			return nil, err
		}
		return artist, nil
	}

	if applyArtistProvenance(artist, prov) {
		if err := r.catalog.UpdateArtistProvenance(artist); err != nil {
			return nil, err
		}
	}

	return artist, nil
}

func applyArtistProvenance(artist *catalog.Artist, prov Provenance) bool {
	changed := false
	if prov.MusicBrainzID != "" && artist.MusicBrainzID.String != prov.MusicBrainzID {
		artist.MusicBrainzID = catalog.NullString(prov.MusicBrainzID)
		changed = true
	}
	if prov.SpotifyID != "" && artist.SpotifyID.String != prov.SpotifyID {
		artist.SpotifyID = catalog.NullString(prov.SpotifyID)
		changed = true
	}
	if prov.DiscogsID != 0 && artist.DiscogsID.Int64 != prov.DiscogsID {
		artist.DiscogsID = catalog.NullInt(prov.DiscogsID)
		changed = true
	}
	return changed
}

// ResolveAlbum matches a candidate against the catalog and upserts the
// album row, its tracks, genres and artist credits. The same candidate
// always converges to the same row with the same field values.
func (r *Resolver) ResolveAlbum(cand *AlbumCandidate) (*catalog.Album, error) {
	title := strings.TrimSpace(cand.Title)
	if title == "" {
		return nil, fmt.Errorf("album title: %w", util.ErrMalformed)
	}

	filter := catalog.AlbumFilter{
		Title:       title,
		Medium:      cand.Medium,
		Compilation: cand.IsCompilation,
		SpotifyID:   cand.Provenance.SpotifyID,
	}
	if !cand.IsCompilation {
		filter.ArtistNames = cand.ArtistNames()
	}

	album, err := r.catalog.FindAlbum(filter)
	if err != nil {
		return nil, err
	}

	if album != nil {
		applyAlbumProvenance(album, cand.Provenance)
		album.IsCompilation = cand.IsCompilation
		if cand.Medium != "" {
			album.Medium = catalog.NullString(string(cand.Medium))
		}
		// A known year is never downgraded by a regular candidate
		if !album.Year.Valid && cand.Year > 0 {
			album.Year = catalog.NullInt(int64(cand.Year))
		}
		if err := r.catalog.UpdateAlbum(album); err != nil {
			return nil, err
		}
	} else {
		album = &catalog.Album{
			Title:         title,
			IsCompilation: cand.IsCompilation,
		}
		if cand.Medium != "" {
			album.Medium = catalog.NullString(string(cand.Medium))
		}
		if cand.Year > 0 {
			album.Year = catalog.NullInt(int64(cand.Year))
		}
		applyAlbumProvenance(album, cand.Provenance)
		if err := r.catalog.InsertAlbum(album); err != nil {
			return nil, err
		}
	}

	siblings := make([]string, len(cand.Tracks))
	for idx, track := range cand.Tracks {
		siblings[idx] = track.Position
	}

	for idx := range cand.Tracks {
		track := &cand.Tracks[idx]
		disc, number := track.DiscNumber, track.TrackNumber
		if number <= 0 {
			disc, number = ResolvePosition(track.Position, siblings, idx)
		} else if disc <= 0 {
			disc = 1
		}
		// A malformed track skips only itself, not the album
		if _, err := r.ResolveTrack(album.ID, disc, number, track); err != nil {
			util.WarnLog("Skipping track %q on %q: %v", track.Title, album.Title, err)
		}
	}

	if len(cand.Genres) > 0 {
		if err := r.catalog.AttachAlbumGenres(album.ID, cand.Genres); err != nil {
			return nil, err
		}
	}

	if cand.IsCompilation {
		// Compilations carry no album-level credits, even when the source
		// supplied some
		if err := r.catalog.ClearAlbumArtists(album.ID); err != nil {
			return nil, err
		}
		return album, nil
	}

	for idx, credit := range cand.Artists {
		artist, err := r.ResolveArtist(credit.Name, credit.Provenance)
		if err != nil {
			util.WarnLog("Skipping album credit %q on %q: %v", credit.Name, album.Title, err)
			continue
		}
		phrase := credit.JoinPhrase
		if strings.TrimSpace(phrase) == "" {
			phrase = "/"
		}
		if err := r.catalog.UpsertAlbumArtist(album.ID, artist.ID, idx, phrase); err != nil {
			return nil, err
		}
	}

	return album, nil
}

func applyAlbumProvenance(album *catalog.Album, prov Provenance) {
	if prov.MusicBrainzID != "" {
		album.MusicBrainzID = catalog.NullString(prov.MusicBrainzID)
	}
	if prov.MusicBrainzGroupID != "" {
		album.MusicBrainzGroupID = catalog.NullString(prov.MusicBrainzGroupID)
	}
	if prov.SpotifyID != "" {
		album.SpotifyID = catalog.NullString(prov.SpotifyID)
	}
	if prov.DiscogsID != 0 {
		album.DiscogsID = catalog.NullInt(prov.DiscogsID)
	}
}

// ResolveTrack upserts one track at a resolved position. The natural key is
// (album, disc number, track number); for local files the file path is a
// secondary key, and a row known from another source with no file path yet
// is claimed by the scanned file occupying its position slot. Fields the
// candidate does not supply are left untouched.
func (r *Resolver) ResolveTrack(albumID int64, disc, number int, cand *TrackCandidate) (*catalog.Track, error) {
	title := strings.TrimSpace(cand.Title)
	if title == "" {
		return nil, fmt.Errorf("track title: %w", util.ErrMalformed)
	}

	var track *catalog.Track
	var err error

	if albumID > 0 {
		track, err = r.catalog.FindTrackByPosition(albumID, disc, number)
		if err != nil {
			return nil, err
		}
	}
	if track == nil && cand.FilePath != "" {
		track, err = r.catalog.FindTrackByFilePath(cand.FilePath)
		if err != nil {
			return nil, err
		}
	}

	if track == nil {
		track = &catalog.Track{Title: title}
		if albumID > 0 {
			track.AlbumID = catalog.NullInt(albumID)
		}
		track.DiscNumber = catalog.NullInt(int64(disc))
		track.TrackNumber = catalog.NullInt(int64(number))
		applyTrackFields(track, cand)
		if err := r.catalog.InsertTrack(track); err != nil {
			return nil, err
		}
	} else {
		track.Title = title
		if albumID > 0 {
			track.AlbumID = catalog.NullInt(albumID)
		}
		track.DiscNumber = catalog.NullInt(int64(disc))
		track.TrackNumber = catalog.NullInt(int64(number))
		applyTrackFields(track, cand)
		if err := r.catalog.UpdateTrack(track); err != nil {
			return nil, err
		}
	}

	for idx, credit := range cand.Artists {
		artist, err := r.ResolveArtist(credit.Name, credit.Provenance)
		if err != nil {
			util.WarnLog("Skipping track credit %q on %q: %v", credit.Name, title, err)
			continue
		}
		phrase := credit.JoinPhrase
		if strings.TrimSpace(phrase) == "" {
			phrase = "/"
		}
		if err := r.catalog.UpsertTrackArtist(track.ID, artist.ID, idx, phrase); err != nil {
			return nil, err
		}
	}

	if len(cand.Genres) > 0 {
		if err := r.catalog.AttachTrackGenres(track.ID, cand.Genres); err != nil {
			return nil, err
		}
	}

	return track, nil
}

func applyTrackFields(track *catalog.Track, cand *TrackCandidate) {
	if cand.Year > 0 {
		track.Year = catalog.NullInt(int64(cand.Year))
	}
	if cand.Duration > 0 {
		track.DurationSec = catalog.NullInt(int64(cand.Duration.Seconds() + 0.5))
	}
	if cand.FilePath != "" {
		track.FilePath = catalog.NullString(cand.FilePath)
	}
	if cand.FileHash != "" {
		track.FileHash = catalog.NullString(cand.FileHash)
	}
	if cand.Provenance.MusicBrainzID != "" {
		track.MusicBrainzID = catalog.NullString(cand.Provenance.MusicBrainzID)
	}
	if cand.Provenance.SpotifyID != "" {
		track.SpotifyID = catalog.NullString(cand.Provenance.SpotifyID)
	}
	if cand.Provenance.DiscogsID != 0 {
		track.DiscogsID = catalog.NullInt(cand.Provenance.DiscogsID)
	}
}

// CleanupOrphans deletes artists left with no album and no track credits.
// Called once per batch, after every upsert, so an artist a later record in
// the batch references is never deleted mid-run.
func (r *Resolver) CleanupOrphans() (int64, error) {
	return r.catalog.DeleteOrphanArtists()
}
