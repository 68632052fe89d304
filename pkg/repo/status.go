package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/odvcencio/grit/pkg/object"
)

// Classification is the status of one path from the three-way comparison of
// working tree, staging index, and HEAD tree.
type Classification int

const (
	// StatusStaged: staged and unmodified since staging.
	StatusStaged Classification = iota
	// StatusModified: staged, but the working copy differs from the staged blob.
	StatusModified
	// StatusUntracked: on disk, in neither the index nor the HEAD tree.
	StatusUntracked
	// StatusModifiedNotStaged: on disk and in the HEAD tree, but not staged.
	StatusModifiedNotStaged
	// StatusDeleted: staged, but missing from the working tree.
	StatusDeleted
	// StatusDeletedNotStaged: in the HEAD tree, absent from both the working
	// tree and the index.
	StatusDeletedNotStaged
)

func (c Classification) String() string {
	switch c {
	case StatusStaged:
		return "staged"
	case StatusModified:
		return "modified"
	case StatusUntracked:
		return "untracked"
	case StatusModifiedNotStaged:
		return "modified (not staged)"
	case StatusDeleted:
		return "deleted"
	case StatusDeletedNotStaged:
		return "deleted (not staged)"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// StatusEntry records the classification of a single path.
type StatusEntry struct {
	Path  string // repo-relative path
	State Classification
}

// Status computes the working tree status for the repository. Every path
// present in at least one of {working tree, staging index, HEAD tree}
// receives exactly one classification. Status performs no mutation;
// re-invoking it restarts the computation.
//
// Algorithm:
//  1. Read the staging index.
//  2. Walk the working directory (skipping .grit/ and ignored paths).
//  3. Flatten the HEAD commit's tree (empty when there are no commits).
//  4. Classify the union of all paths.
func (r *Repo) Status() ([]StatusEntry, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	ic := NewIgnoreChecker(r.RootDir)

	// Collect all working-tree files (repo-relative paths).
	workFiles := make(map[string]bool)
	err = filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rel == "." {
			return nil
		}
		if ic.IsIgnored(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Type().IsRegular() {
			workFiles[rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status: walk: %w", err)
	}

	headEntries, err := r.headTreeEntries()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	result := make(map[string]Classification)

	for path := range workFiles {
		se, inStaging := stg.Entries[path]
		if !inStaging {
			if _, inHead := headEntries[path]; inHead {
				result[path] = StatusModifiedNotStaged
			} else {
				result[path] = StatusUntracked
			}
			continue
		}

		workHash, err := r.worktreeBlobHash(path, se)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if workHash == se.BlobHash {
			result[path] = StatusStaged
		} else {
			result[path] = StatusModified
		}
	}

	for path := range stg.Entries {
		if !workFiles[path] {
			result[path] = StatusDeleted
		}
	}

	for path := range headEntries {
		if _, done := result[path]; done {
			continue
		}
		// In HEAD, absent from both working tree and index.
		result[path] = StatusDeletedNotStaged
	}

	entries := make([]StatusEntry, 0, len(result))
	for path, state := range result {
		entries = append(entries, StatusEntry{Path: path, State: state})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// worktreeBlobHash returns the blob hash the file at path would have if
// staged now. Two fast paths avoid full SHA-256 hashing: when size and
// mtime match the index entry the staged hash is reused, and when the xxh3
// checksum of the content matches the entry the staged hash is reused.
func (r *Repo) worktreeBlobHash(path string, se *StagingEntry) (object.Hash, error) {
	absPath := filepath.Join(r.RootDir, filepath.FromSlash(path))

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat %q: %w", path, err)
	}
	if info.Size() == se.Size && info.ModTime().UnixNano() == se.ModTime &&
		normalizeFileMode(modeFromFileInfo(info)) == normalizeFileMode(se.Mode) {
		return se.BlobHash, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	if xxh3.Hash(content) == se.Checksum {
		return se.BlobHash, nil
	}
	return object.HashObject(object.TypeBlob, content), nil
}

// headTreeEntries reads the HEAD commit's tree and flattens it into
// path → blob hash. A fresh repository (no ref file yet) yields an empty
// map; a corrupt or unreadable HEAD commit is an error, never an empty tree.
func (r *Repo) headTreeEntries() (map[string]object.Hash, error) {
	result := make(map[string]object.Hash)

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return nil, err
	}
	if headHash == "" {
		return result, nil
	}

	commit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("head commit %s: %w", headHash, err)
	}

	files, err := r.FlattenTree(commit.TreeHash)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		result[f.Path] = f.BlobHash
	}
	return result, nil
}
