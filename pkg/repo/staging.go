package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/odvcencio/grit/pkg/object"
)

// StagingEntry records the staged state of a single file. Size, ModTime and
// Checksum let the status engine skip re-hashing files whose stat or quick
// checksum still matches.
type StagingEntry struct {
	Path     string      `json:"path"`
	BlobHash object.Hash `json:"blob_hash"`
	Mode     string      `json:"mode"`
	Size     int64       `json:"size"`
	ModTime  int64       `json:"mod_time"` // unix nanoseconds
	Checksum uint64      `json:"checksum"` // xxh3 of the file content
}

// Staging holds the full staging area (index) for a grit repository.
type Staging struct {
	Entries map[string]*StagingEntry `json:"entries"`
}

// Sorted returns the staging entries ordered by path.
func (s *Staging) Sorted() []*StagingEntry {
	out := make([]*StagingEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.GritDir, "index")
}

// ReadStaging loads the staging area from .grit/index. If the file does not
// exist, an empty Staging is returned (no error): a fresh repository has an
// empty index, not a broken one.
func (r *Repo) ReadStaging() (*Staging, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Staging{Entries: make(map[string]*StagingEntry)}, nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	var stg Staging
	if err := json.Unmarshal(data, &stg); err != nil {
		return nil, fmt.Errorf("read staging: unmarshal: %w", err)
	}
	if stg.Entries == nil {
		stg.Entries = make(map[string]*StagingEntry)
	}
	return &stg, nil
}

// WriteStaging atomically writes the staging area to .grit/index.
func (r *Repo) WriteStaging(s *Staging) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("write staging: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.GritDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write staging: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write staging: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: close: %w", err)
	}

	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: rename: %w", err)
	}
	return nil
}

// Add stages the given paths. Each path is resolved relative to the repo
// root. Regular files are staged directly; directories are staged by
// recursively staging every non-ignored regular file beneath them. For each
// file the raw content is written as a blob to the object store and a
// StagingEntry is created/updated, then the staging area is flushed to disk
// once at the end.
func (r *Repo) Add(paths []string) error {
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	ic := NewIgnoreChecker(r.RootDir)

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}

		absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
		info, err := os.Lstat(absPath)
		if err != nil {
			return fmt.Errorf("add %q: %w", relPath, err)
		}

		switch {
		case info.IsDir():
			if err := r.stageDir(stg, ic, relPath); err != nil {
				return fmt.Errorf("add: %w", err)
			}
		case info.Mode().IsRegular():
			if err := r.stageFile(stg, relPath); err != nil {
				return fmt.Errorf("add: %w", err)
			}
		default:
			return fmt.Errorf("add %q: %w", relPath, ErrNotAFile)
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// stageDir recursively stages every non-ignored regular file under relDir.
func (r *Repo) stageDir(stg *Staging, ic *IgnoreChecker, relDir string) error {
	absDir := r.RootDir
	if relDir != "." {
		absDir = filepath.Join(r.RootDir, filepath.FromSlash(relDir))
	}

	return filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
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
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			// Sockets, pipes and symlinks are skipped on recursive adds.
			return nil
		}
		return r.stageFile(stg, rel)
	})
}

// stageFile writes the file's blob to the store and records its index entry.
func (r *Repo) stageFile(stg *Staging, relPath string) error {
	absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %q: %w", relPath, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %q: %w", relPath, err)
	}

	blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return fmt.Errorf("write blob %q: %w", relPath, err)
	}

	stg.Entries[relPath] = &StagingEntry{
		Path:     relPath,
		BlobHash: blobHash,
		Mode:     modeFromFileInfo(info),
		Size:     info.Size(),
		ModTime:  info.ModTime().UnixNano(),
		Checksum: xxh3.Hash(content),
	}
	return nil
}

// Remove unstages the given paths. When cached is false the working-tree
// files are deleted as well. A path that is not in the staging index fails
// with ErrNotStaged; nothing is persisted in that case.
func (r *Repo) Remove(paths []string, cached bool) error {
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	relPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("rm: resolve path %q: %w", p, err)
		}
		if _, ok := stg.Entries[relPath]; !ok {
			return fmt.Errorf("rm %q: %w", relPath, ErrNotStaged)
		}
		relPaths = append(relPaths, relPath)
	}

	for _, relPath := range relPaths {
		delete(stg.Entries, relPath)
		if !cached {
			absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
			if err := os.Remove(absPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("rm %q: %w", relPath, err)
			}
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a
// forward-slash path relative to the repository root. If the path is
// relative and cannot be resolved inside the repo, it is assumed to already
// be repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		return filepath.ToSlash(rel), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	abs := filepath.Join(cwd, p)
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	if len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	return filepath.ToSlash(rel), nil
}
