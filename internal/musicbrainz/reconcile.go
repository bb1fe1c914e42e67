package musicbrainz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/match"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

const searchLimit = 10

// ReconcilerConfig configures a reconciliation pass
type ReconcilerConfig struct {
	Catalog *catalog.Catalog
	Client  *Client

	// Retry includes albums whose earlier lookup found no acceptable match
	Retry bool
	// Total re-reconciles every album, matched ones included
	Total bool

	ShowProgress bool
}

// Reconciler matches catalog albums against MusicBrainz releases and
// merges the winning release into the catalog
type Reconciler struct {
	catalog  *catalog.Catalog
	client   *Client
	resolver *resolve.Resolver
	retry    bool
	total    bool
	progress bool
}

// NewReconciler creates a reconciler from the given configuration
func NewReconciler(config ReconcilerConfig) *Reconciler {
	return &Reconciler{
		catalog:  config.Catalog,
		client:   config.Client,
		resolver: resolve.New(config.Catalog),
		retry:    config.Retry,
		total:    config.Total,
		progress: config.ShowProgress,
	}
}

// ReconcileResult summarizes a reconciliation pass
type ReconcileResult struct {
	AlbumsChecked int
	Matched       int
	Unmatched     int
	Errors        int
}

// Run reconciles all eligible albums and finishes with an orphan artist
// sweep. Per-album failures are logged and counted, they never abort
// the pass.
func (r *Reconciler) Run(ctx context.Context) (*ReconcileResult, error) {
	albums, err := r.catalog.AlbumsForReconcile(r.retry, r.total)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}

	result := &ReconcileResult{AlbumsChecked: len(albums)}
	if len(albums) == 0 {
		util.InfoLog("No albums to reconcile")
		return result, nil
	}
	util.InfoLog("Reconciling %d albums against MusicBrainz", len(albums))

	var bar *progressbar.ProgressBar
	if r.progress {
		bar = progressbar.NewOptions(len(albums),
			progressbar.OptionSetDescription("Reconciling"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, album := range albums {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		matched, err := r.ReconcileAlbum(ctx, album)
		if err != nil {
			util.ErrorLog("Album %d (%s): %v", album.ID, album.Title, err)
			result.Errors++
		} else if matched {
			result.Matched++
		} else {
			result.Unmatched++
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if deleted, err := r.resolver.CleanupOrphans(); err != nil {
		return result, fmt.Errorf("failed to delete orphan artists: %w", err)
	} else if deleted > 0 {
		util.InfoLog("Deleted %d orphan artists", deleted)
	}

	return result, nil
}

// ReconcileAlbum finds the best-scoring release for one album and merges
// it when the ratio clears the threshold. Anything below the threshold
// leaves the album marked unresolved.
func (r *Reconciler) ReconcileAlbum(ctx context.Context, album *catalog.Album) (bool, error) {
	target, err := r.resolver.MatchTarget(album)
	if err != nil {
		return false, err
	}

	release, ratio, err := r.bestRelease(ctx, target)
	if errors.Is(err, util.ErrNoMatch) {
		util.DebugLog("Album %d (%s): no match found", album.ID, album.Title)
		return false, r.resolver.MarkAlbumUnresolved(album)
	}
	if err != nil {
		return false, err
	}

	if ratio < match.Threshold {
		util.DebugLog("Album %d (%s): best ratio %.3f below threshold (%s)",
			album.ID, album.Title, ratio, release.Title)
		return false, r.resolver.MarkAlbumUnresolved(album)
	}

	util.InfoLog("Album %d (%s): matched %s (ratio %.3f)", album.ID, album.Title, release.ID, ratio)

	err = r.catalog.Transaction(func(tx *catalog.Catalog) error {
		return resolve.New(tx).OverwriteAlbum(album, release.Candidate())
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// bestRelease searches MusicBrainz for the album and scores every result
// in full, returning the highest-scoring release
func (r *Reconciler) bestRelease(ctx context.Context, target match.CatalogAlbum) (*Release, float64, error) {
	query := fmt.Sprintf("release:%s AND tracks:%d", target.Title, len(target.Tracks))
	if artist := strings.Join(target.ArtistNames, " "); artist != "" {
		query += " AND artist:" + artist
	}

	stubs, err := r.client.SearchReleases(ctx, query, searchLimit)
	if err != nil {
		return nil, 0, err
	}

	var best *Release
	bestRatio := 0.0
	for _, stub := range stubs {
		release, err := r.client.GetRelease(ctx, stub.ID)
		if err != nil {
			util.WarnLog("Failed to look up release %s: %v", stub.ID, err)
			continue
		}
		ratio := match.AlbumRatio(resolve.MatchInput(release.Candidate()), target)
		if best == nil || ratio > bestRatio {
			best = release
			bestRatio = ratio
		}
	}
	if best == nil {
		return nil, 0, util.ErrNoMatch
	}

	return best, bestRatio, nil
}
