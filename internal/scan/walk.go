// Package scan imports the local file library: a pure directory walk that
// produces per-directory file batches, followed by a transactional batch
// resolve of each directory's album set.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions are the supported audio file extensions
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".aac",
	".ogg",
	".opus",
	".wav",
	".aiff",
	".aif",
	".wma",
}

// DirBatch is one directory's worth of audio files, the unit of the
// transactional resolve step
type DirBatch struct {
	Dir           string
	Files         []string // sorted by file name
	IsCompilation bool
}

// Walk recursively collects audio files under root into per-directory
// batches. It has no side effects beyond reading the tree. A directory
// named "various artists" marks its whole subtree as compilations; paths
// under any of the exceptions are skipped.
func Walk(root string, exceptions []string, allCompilations bool) ([]DirBatch, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: root, Err: fs.ErrInvalid}
	}

	return walkDir(root, exceptions, allCompilations)
}

func walkDir(dir string, exceptions []string, isCompilation bool) ([]DirBatch, error) {
	if strings.EqualFold(filepath.Base(dir), "various artists") {
		isCompilation = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	batch := DirBatch{Dir: dir, IsCompilation: isCompilation}
	var batches []DirBatch

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isExcluded(path, exceptions) {
			continue
		}

		if entry.IsDir() {
			sub, err := walkDir(path, exceptions, isCompilation)
			if err != nil {
				return nil, err
			}
			batches = append(batches, sub...)
			continue
		}

		if isAudioFile(entry.Name()) {
			batch.Files = append(batch.Files, path)
		}
	}

	if len(batch.Files) > 0 {
		sort.Slice(batch.Files, func(i, j int) bool {
			return filepath.Base(batch.Files[i]) < filepath.Base(batch.Files[j])
		})
		batches = append(batches, batch)
	}

	return batches, nil
}

func isAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, audioExt := range AudioExtensions {
		if ext == audioExt {
			return true
		}
	}
	return false
}

func isExcluded(path string, exceptions []string) bool {
	for _, exception := range exceptions {
		if path == exception {
			return true
		}
		if rel, err := filepath.Rel(exception, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}
