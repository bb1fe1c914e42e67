package lastfm

import (
	"context"
	"fmt"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/util"
)

// SyncerConfig configures a play count sync
type SyncerConfig struct {
	Catalog *catalog.Catalog
	Client  *Client
}

// Syncer writes Last.fm play counts onto matching catalog tracks
type Syncer struct {
	catalog *catalog.Catalog
	client  *Client
}

// NewSyncer creates a syncer from the given configuration
func NewSyncer(config SyncerConfig) *Syncer {
	return &Syncer{
		catalog: config.Catalog,
		client:  config.Client,
	}
}

// SyncResult summarizes a play count sync
type SyncResult struct {
	TracksChecked int
	TracksUpdated int
}

// Run walks the user's complete top track listing and updates every
// catalog track it can pin down. Matching tries the recording id first,
// then the artist's MusicBrainz id plus title, then the artist name plus
// title; unmatched scrobbles are skipped silently.
func (s *Syncer) Run(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}

	page, pages := 1, 1
	for page <= pages {
		listing, err := s.client.TopTracksPage(ctx, page)
		if err != nil {
			return result, fmt.Errorf("failed to fetch top tracks: %w", err)
		}
		if total := listing.TotalPages(); total > 0 {
			pages = total
		}
		page++

		err = s.catalog.Transaction(func(tx *catalog.Catalog) error {
			for _, scrobble := range listing.Tracks {
				if err := ctx.Err(); err != nil {
					return err
				}
				result.TracksChecked++

				tracks, err := s.matchTracks(tx, scrobble)
				if err != nil {
					return err
				}
				if len(tracks) == 0 {
					continue
				}

				util.DebugLog("%s - %s: updating %d tracks (%s plays)",
					scrobble.Artist.Name, scrobble.Name, len(tracks), scrobble.PlayCount)
				for _, track := range tracks {
					if err := tx.UpdateTrackPlayCount(track.ID, scrobble.Plays(), scrobble.MBID); err != nil {
						return err
					}
					result.TracksUpdated++
				}
			}
			return nil
		})
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s *Syncer) matchTracks(tx *catalog.Catalog, scrobble TopTrack) ([]*catalog.Track, error) {
	if scrobble.MBID != "" {
		tracks, err := tx.TracksByMusicBrainzID(scrobble.MBID)
		if err != nil || len(tracks) > 0 {
			return tracks, err
		}
	}
	if scrobble.Artist.MBID != "" {
		tracks, err := tx.TracksByArtistMBIDAndTitle(scrobble.Artist.MBID, scrobble.Name)
		if err != nil || len(tracks) > 0 {
			return tracks, err
		}
	}
	return tx.TracksByArtistNameAndTitle(scrobble.Artist.Name, scrobble.Name)
}
