package spotify

import (
	"context"
	"fmt"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// SyncerConfig configures a saved-albums sync
type SyncerConfig struct {
	Catalog *catalog.Catalog
	Client  *Client

	// Reconciler, when set, matches each imported album against
	// MusicBrainz right after resolution
	Reconciler *musicbrainz.Reconciler

	// Total re-imports albums the catalog already knows
	Total bool
	// DeleteOrphans removes catalog albums no longer saved remotely
	DeleteOrphans bool
}

// Syncer imports a user's saved Spotify albums into the catalog
type Syncer struct {
	catalog    *catalog.Catalog
	client     *Client
	reconciler *musicbrainz.Reconciler
	total      bool
	delete     bool
}

// NewSyncer creates a syncer from the given configuration
func NewSyncer(config SyncerConfig) *Syncer {
	return &Syncer{
		catalog:    config.Catalog,
		client:     config.Client,
		reconciler: config.Reconciler,
		total:      config.Total,
		delete:     config.DeleteOrphans,
	}
}

// SyncResult summarizes a saved-albums sync
type SyncResult struct {
	AlbumsImported int
	AlbumsSkipped  int
	AlbumsDeleted  int64
	Errors         int
}

// Run fetches the user's saved albums and resolves every new one into
// the catalog, one transaction per album. Known albums are skipped
// unless a total sync is requested. Per-album failures are logged and
// counted, they never abort the sync.
func (s *Syncer) Run(ctx context.Context) (*SyncResult, error) {
	knownIDs, err := s.catalog.AlbumSpotifyIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list known albums: %w", err)
	}
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	saved, err := s.savedAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved albums: %w", err)
	}

	keep := append([]string{}, knownIDs...)

	result := &SyncResult{}
	var pending []Album
	for _, entry := range saved {
		keep = append(keep, entry.Album.ID)
		if !s.total && known[entry.Album.ID] {
			result.AlbumsSkipped++
			continue
		}
		pending = append(pending, entry.Album)
	}

	util.InfoLog("Importing %d of %d albums", len(pending), len(saved))

	for idx, album := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.importAlbum(ctx, album); err != nil {
			util.ErrorLog("[%d/%d] %s: %v", idx+1, len(pending), album.Name, err)
			result.Errors++
			continue
		}
		util.InfoLog("[%d/%d] %s", idx+1, len(pending), album.Name)
		result.AlbumsImported++
	}

	if s.delete {
		deleted, err := s.catalog.DeleteAlbumsNotInSpotifyIDs(keep)
		if err != nil {
			return result, fmt.Errorf("failed to delete orphan albums: %w", err)
		}
		if deleted > 0 {
			util.InfoLog("Deleted %d orphan albums", deleted)
		}
		result.AlbumsDeleted = deleted
	}

	if deleted, err := resolve.New(s.catalog).CleanupOrphans(); err != nil {
		return result, fmt.Errorf("failed to delete orphan artists: %w", err)
	} else if deleted > 0 {
		util.InfoLog("Deleted %d orphan artists", deleted)
	}

	return result, nil
}

func (s *Syncer) savedAlbums(ctx context.Context) ([]SavedAlbum, error) {
	var saved []SavedAlbum
	pageURL := ""
	page := 1

	for {
		util.InfoLog("Fetching saved albums (page %d)", page)
		result, err := s.client.SavedAlbumsPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		saved = append(saved, result.Items...)
		if result.Next == "" {
			return saved, nil
		}
		pageURL = result.Next
		page++
	}
}

func (s *Syncer) importAlbum(ctx context.Context, album Album) error {
	// Long albums paginate their tracklist; complete it first
	next := album.Tracks.Next
	for next != "" {
		page, err := s.client.AlbumTracksPage(ctx, next)
		if err != nil {
			return err
		}
		album.Tracks.Items = append(album.Tracks.Items, page.Items...)
		next = page.Next
	}

	cand := album.Candidate()

	var resolved *catalog.Album
	err := s.catalog.Transaction(func(tx *catalog.Catalog) error {
		var err error
		resolved, err = resolve.New(tx).ResolveAlbum(cand)
		return err
	})
	if err != nil {
		return err
	}

	if s.reconciler != nil {
		if _, err := s.reconciler.ReconcileAlbum(ctx, resolved); err != nil {
			return fmt.Errorf("musicbrainz reconcile: %w", err)
		}
	}
	return nil
}
