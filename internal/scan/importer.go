package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dhowden/tag"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/resolve"
	"github.com/franz/record-collection/internal/util"
)

// filenameTitleRe strips a leading "03 - " / "03 " track prefix when a file
// has no title tag and the name must serve instead
var filenameTitleRe = regexp.MustCompile(`^(?:\d+ (?:- )?)?(.*)$`)

// Importer resolves walked file batches into the catalog. Each directory
// batch is one atomic transaction: either the whole album set of that
// directory commits, or none of it does.
type Importer struct {
	catalog        *catalog.Catalog
	skipPaths      map[string]bool
	total          bool
	probeDurations bool
}

// Config holds importer configuration
type Config struct {
	Catalog *catalog.Catalog
	// Total reprocesses files whose paths the catalog already knows
	Total bool
	// ProbeDurations reads durations via ffprobe (slower)
	ProbeDurations bool
}

// NewImporter creates an Importer, pre-loading the known file paths used as
// the skip list
func NewImporter(cfg *Config) (*Importer, error) {
	skipPaths, err := cfg.Catalog.ExistingFilePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to load existing file paths: %w", err)
	}

	return &Importer{
		catalog:        cfg.Catalog,
		skipPaths:      skipPaths,
		total:          cfg.Total,
		probeDurations: cfg.ProbeDurations,
	}, nil
}

// Result represents import results
type Result struct {
	FilesImported  int
	FilesSkipped   int
	AlbumsResolved int
	SeenPaths      map[string]bool
	Errors         []error
}

// fileRecord is one file's tags plus its ordinal within the directory
type fileRecord struct {
	path     string
	index    int
	title    string
	album    string
	artist   string
	albumArt string
	genre    string
	year     int
	disc     int
	track    int
}

// ImportAll resolves every batch, continuing past per-batch failures
func (im *Importer) ImportAll(batches []DirBatch) *Result {
	result := &Result{SeenPaths: make(map[string]bool)}

	for _, batch := range batches {
		if err := im.ImportBatch(batch, result); err != nil {
			util.ErrorLog("Failed to import %s: %v", batch.Dir, err)
			result.Errors = append(result.Errors, err)
		}
	}

	return result
}

// ImportBatch resolves one directory batch inside a single transaction
func (im *Importer) ImportBatch(batch DirBatch, result *Result) error {
	var records []fileRecord

	for idx, path := range batch.Files {
		result.SeenPaths[path] = true
		if im.skipPaths[path] && !im.total {
			result.FilesSkipped++
			continue
		}

		record, err := readFileTags(path, idx)
		if err != nil {
			// One unreadable file skips only itself
			util.WarnLog("Skipping %s: %v", path, err)
			result.Errors = append(result.Errors, err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil
	}

	albums, loose := im.groupRecords(records, batch.IsCompilation)

	err := im.catalog.Transaction(func(tx *catalog.Catalog) error {
		resolver := resolve.New(tx)

		for i := range albums {
			album, err := resolver.ResolveAlbum(&albums[i])
			if err != nil {
				return fmt.Errorf("album %q: %w", albums[i].Title, err)
			}
			util.DebugLog("Resolved album %q (id=%d)", album.Title, album.ID)
			result.AlbumsResolved++
		}

		for i := range loose {
			track := &loose[i]
			disc, number := track.DiscNumber, track.TrackNumber
			if _, err := resolver.ResolveTrack(0, disc, number, track); err != nil {
				return fmt.Errorf("track %q: %w", track.Title, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	result.FilesImported += len(records)
	return nil
}

// groupRecords splits a directory's files into per-album candidates and
// loose tracks known from no album context
func (im *Importer) groupRecords(records []fileRecord, isCompilation bool) ([]resolve.AlbumCandidate, []resolve.TrackCandidate) {
	var albums []resolve.AlbumCandidate
	albumIdx := make(map[string]int)
	var albumArtVotes, trackArtVotes []map[string]int
	var loose []resolve.TrackCandidate

	for _, record := range records {
		trackCand := im.trackCandidate(record)

		hasArtist := record.artist != "" || record.albumArt != ""
		if record.album == "" || (!hasArtist && !isCompilation) {
			loose = append(loose, trackCand)
			continue
		}

		key := strings.ToLower(record.album)
		idx, ok := albumIdx[key]
		if !ok {
			idx = len(albums)
			albumIdx[key] = idx
			albums = append(albums, resolve.AlbumCandidate{
				Title:         record.album,
				Medium:        catalog.MediumFile,
				IsCompilation: isCompilation,
			})
			albumArtVotes = append(albumArtVotes, make(map[string]int))
			trackArtVotes = append(trackArtVotes, make(map[string]int))
		}

		albums[idx].Tracks = append(albums[idx].Tracks, trackCand)
		if record.albumArt != "" {
			albumArtVotes[idx][record.albumArt]++
		}
		if record.artist != "" {
			trackArtVotes[idx][record.artist]++
		}
		if record.genre != "" {
			albums[idx].Genres = appendUnique(albums[idx].Genres, record.genre)
		}
	}

	for idx := range albums {
		if !albums[idx].IsCompilation {
			// Albumartist tags outrank a majority vote over track artists
			top := topVote(albumArtVotes[idx])
			if top == "" {
				top = topVote(trackArtVotes[idx])
			}
			if top != "" {
				albums[idx].Artists = []resolve.ArtistCandidate{{Name: top}}
			}
		}
		if year := commonTrackYear(albums[idx].Tracks); year > 0 {
			albums[idx].Year = year
		}
	}

	return albums, loose
}

func (im *Importer) trackCandidate(record fileRecord) resolve.TrackCandidate {
	cand := resolve.TrackCandidate{
		Title:       record.title,
		DiscNumber:  record.disc,
		TrackNumber: record.track,
		Year:        record.year,
		FilePath:    record.path,
	}
	if cand.DiscNumber <= 0 {
		cand.DiscNumber = 1
	}
	if cand.TrackNumber <= 0 {
		// 1-based file order within the directory
		cand.TrackNumber = record.index + 1
	}

	artistName := record.artist
	if artistName == "" {
		artistName = record.albumArt
	}
	if artistName != "" {
		cand.Artists = []resolve.ArtistCandidate{{Name: artistName}}
	}
	if record.genre != "" {
		cand.Genres = []string{record.genre}
	}

	if hash, err := hashFile(record.path); err == nil {
		cand.FileHash = hash
	}
	if im.probeDurations {
		cand.Duration = ProbeDuration(record.path)
	}

	return cand
}

func readFileTags(path string, index int) (fileRecord, error) {
	record := fileRecord{path: path, index: index}

	f, err := os.Open(path)
	if err != nil {
		return record, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// Untagged files still import, titled from the file name
		util.DebugLog("No tags in %s: %v", path, err)
		record.title = titleFromFilename(path)
		return record, nil
	}

	record.title = strings.TrimSpace(m.Title())
	record.album = strings.TrimSpace(m.Album())
	record.artist = strings.TrimSpace(m.Artist())
	record.albumArt = strings.TrimSpace(m.AlbumArtist())
	record.genre = strings.TrimSpace(m.Genre())
	record.year = m.Year()
	record.track, _ = m.Track()
	record.disc, _ = m.Disc()

	if record.title == "" {
		record.title = titleFromFilename(path)
	}

	return record, nil
}

// titleFromFilename derives a track title from the file name, dropping the
// extension and any leading track-number prefix
func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := filenameTitleRe.FindStringSubmatch(stem); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(stem)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func appendUnique(names []string, name string) []string {
	for _, existing := range names {
		if strings.EqualFold(existing, name) {
			return names
		}
	}
	return append(names, name)
}

func topVote(votes map[string]int) string {
	top := ""
	best := 0
	for name, count := range votes {
		if count > best || (count == best && name < top) {
			top = name
			best = count
		}
	}
	return top
}

// commonTrackYear returns the single year shared by every track that has
// one, or 0 when the years disagree or none is known
func commonTrackYear(tracks []resolve.TrackCandidate) int {
	year := 0
	for _, track := range tracks {
		if track.Year <= 0 {
			continue
		}
		if year == 0 {
			year = track.Year
		} else if year != track.Year {
			return 0
		}
	}
	return year
}
