package resolve

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/match"
	"github.com/franz/record-collection/internal/util"
)

// MatchInput converts a candidate into the scorer's source-side shape
func MatchInput(cand *AlbumCandidate) match.AlbumInput {
	input := match.AlbumInput{Title: cand.Title}
	for _, credit := range cand.Artists {
		input.Credits = append(input.Credits, match.Credit{Name: credit.Name})
	}
	for _, track := range cand.Tracks {
		trackInput := match.TrackInput{Title: track.Title}
		for _, credit := range track.Artists {
			trackInput.Credits = append(trackInput.Credits, match.Credit{Name: credit.Name})
		}
		input.Tracks = append(input.Tracks, trackInput)
	}
	return input
}

// MatchTarget loads the scorer's catalog-side shape for an album
func (r *Resolver) MatchTarget(album *catalog.Album) (match.CatalogAlbum, error) {
	target := match.CatalogAlbum{
		Title:         album.Title,
		IsCompilation: album.IsCompilation,
	}

	credits, err := r.catalog.AlbumArtistCredits(album.ID)
	if err != nil {
		return target, err
	}
	for _, credit := range credits {
		target.ArtistNames = append(target.ArtistNames, credit.Name)
	}

	tracks, err := r.catalog.AlbumTracks(album.ID)
	if err != nil {
		return target, err
	}
	for _, track := range tracks {
		trackCredits, err := r.catalog.TrackArtistCredits(track.ID)
		if err != nil {
			return target, err
		}
		catalogTrack := match.CatalogTrack{Title: track.Title}
		for _, credit := range trackCredits {
			catalogTrack.ArtistNames = append(catalogTrack.ArtistNames, credit.Name)
		}
		target.Tracks = append(target.Tracks, catalogTrack)
	}

	return target, nil
}

// OverwriteAlbum applies a winning cross-provider candidate to an existing
// catalog album: title, year and provenance ids are replaced outright,
// genres are unioned in, credits are cleared and rebuilt (unless the album
// is a compilation), and tracks are merged pairwise by position index.
// Only durations the catalog lacks are filled in.
func (r *Resolver) OverwriteAlbum(album *catalog.Album, cand *AlbumCandidate) error {
	album.Title = cand.Title
	if cand.Year > 0 {
		album.Year = catalog.NullInt(int64(cand.Year))
	} else {
		album.Year = sql.NullInt64{}
	}
	album.MusicBrainzID = catalog.NullString(cand.Provenance.MusicBrainzID)
	album.MusicBrainzGroupID = catalog.NullString(cand.Provenance.MusicBrainzGroupID)

	if err := r.catalog.UpdateAlbum(album); err != nil {
		return err
	}

	if len(cand.Genres) > 0 {
		if err := r.catalog.AttachAlbumGenres(album.ID, cand.Genres); err != nil {
			return err
		}
	}

	if !album.IsCompilation {
		if err := r.catalog.ClearAlbumArtists(album.ID); err != nil {
			return err
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
				return err
			}
		}
	}

	tracks, err := r.catalog.AlbumTracks(album.ID)
	if err != nil {
		return err
	}

	// Zip by index, not by title: position i of the winning candidate
	// overwrites catalog track i
	for idx, track := range tracks {
		if idx >= len(cand.Tracks) {
			break
		}
		if err := r.overwriteTrack(track, &cand.Tracks[idx]); err != nil {
			return fmt.Errorf("track %q: %w", track.Title, err)
		}
	}

	return nil
}

func (r *Resolver) overwriteTrack(track *catalog.Track, cand *TrackCandidate) error {
	track.Title = cand.Title
	if cand.DiscNumber > 0 {
		track.DiscNumber = catalog.NullInt(int64(cand.DiscNumber))
	}
	if cand.TrackNumber > 0 {
		track.TrackNumber = catalog.NullInt(int64(cand.TrackNumber))
	}
	if cand.Year > 0 {
		track.Year = catalog.NullInt(int64(cand.Year))
	} else {
		track.Year = sql.NullInt64{}
	}
	if cand.Provenance.MusicBrainzID != "" {
		track.MusicBrainzID = catalog.NullString(cand.Provenance.MusicBrainzID)
	}
	if !track.DurationSec.Valid && cand.Duration > 0 {
		track.DurationSec = catalog.NullInt(int64(cand.Duration.Seconds() + 0.5))
	}

	if err := r.catalog.UpdateTrack(track); err != nil {
		return err
	}

	if err := r.catalog.ClearTrackArtists(track.ID); err != nil {
		return err
	}
	for idx, credit := range cand.Artists {
		artist, err := r.ResolveArtist(credit.Name, credit.Provenance)
		if err != nil {
			util.WarnLog("Skipping track credit %q on %q: %v", credit.Name, track.Title, err)
			continue
		}
		phrase := credit.JoinPhrase
		if strings.TrimSpace(phrase) == "" {
			phrase = "/"
		}
		if err := r.catalog.UpsertTrackArtist(track.ID, artist.ID, idx, phrase); err != nil {
			return err
		}
	}

	if len(cand.Genres) > 0 {
		if err := r.catalog.AttachTrackGenres(track.ID, cand.Genres); err != nil {
			return err
		}
	}

	return nil
}

// MarkAlbumUnresolved records the "looked up, no acceptable match" sentinel
// (empty string) on an album whose provider search came up short, so later
// runs skip it unless a retry is forced. A real id already present is
// never replaced by the sentinel.
func (r *Resolver) MarkAlbumUnresolved(album *catalog.Album) error {
	if album.MusicBrainzID.Valid && album.MusicBrainzID.String != "" {
		return nil
	}
	album.MusicBrainzID = catalog.NullString("")
	return r.catalog.UpdateAlbum(album)
}
