package discogs

import (
	"context"
	"fmt"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/musicbrainz"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// SyncerConfig configures a collection sync
type SyncerConfig struct {
	Catalog *catalog.Catalog
	Client  *Client

	// Reconciler, when set, matches each imported album against
	// MusicBrainz right after resolution
	Reconciler *musicbrainz.Reconciler

	// Total re-imports releases the catalog already knows
	Total bool
	// DeleteOrphans removes catalog albums whose release has left the
	// remote collection
	DeleteOrphans bool
}

// Syncer imports a user's Discogs collection into the catalog
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

// SyncResult summarizes a collection sync
type SyncResult struct {
	AlbumsImported int
	AlbumsSkipped  int
	AlbumsDeleted  int64
	Errors         int
}

// Run fetches the remote collection and resolves every new release into
// the catalog, one transaction per release. Known releases are skipped
// unless a total sync is requested. Per-release failures are logged and
// counted, they never abort the sync.
func (s *Syncer) Run(ctx context.Context) (*SyncResult, error) {
	knownIDs, err := s.catalog.AlbumDiscogsIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list known releases: %w", err)
	}
	known := make(map[int64]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	collection, err := s.client.UserCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}

	// Every release still in the remote collection is kept, imported
	// or not; the orphan delete below works off this list.
	keep := append([]int64{}, knownIDs...)

	result := &SyncResult{}
	var pending []CollectionRelease
	for _, entry := range collection {
		keep = append(keep, entry.BasicInformation.ID)
		if !s.total && known[entry.BasicInformation.ID] {
			result.AlbumsSkipped++
			continue
		}
		pending = append(pending, entry)
	}

	util.InfoLog("Importing %d of %d releases", len(pending), len(collection))

	for idx, entry := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		title := entry.BasicInformation.Title
		if err := s.importRelease(ctx, entry.BasicInformation.ID); err != nil {
			util.ErrorLog("[%d/%d] %s: %v", idx+1, len(pending), title, err)
			result.Errors++
			continue
		}
		util.InfoLog("[%d/%d] %s", idx+1, len(pending), title)
		result.AlbumsImported++
	}

	if s.delete {
		deleted, err := s.catalog.DeleteAlbumsNotInDiscogsIDs(keep)
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

func (s *Syncer) importRelease(ctx context.Context, releaseID int64) error {
	release, err := s.client.GetRelease(ctx, releaseID)
	if err != nil {
		return err
	}
	cand := release.Candidate()

	var album *catalog.Album
	err = s.catalog.Transaction(func(tx *catalog.Catalog) error {
		album, err = resolve.New(tx).ResolveAlbum(cand)
		return err
	})
	if err != nil {
		return err
	}

	if s.reconciler != nil {
		if _, err := s.reconciler.ReconcileAlbum(ctx, album); err != nil {
			return fmt.Errorf("musicbrainz reconcile: %w", err)
		}
	}
	return nil
}
