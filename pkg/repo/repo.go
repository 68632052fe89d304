package repo

import (
	"errors"

	"github.com/odvcencio/grit/pkg/object"
)

// Repo represents an opened grit repository.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	Store   *object.Store // content-addressed object store
}

var (
	// ErrNotARepository reports that no .grit/ directory was found at or
	// above the requested path.
	ErrNotARepository = errors.New("not a grit repository")

	// ErrNothingToCommit reports that the staging index is empty or that the
	// staged tree is identical to the current HEAD commit's tree.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrNotStaged reports an unstage request for a path absent from the
	// staging index.
	ErrNotStaged = errors.New("path is not staged")

	// ErrNotAFile reports an attempt to stage something that is neither a
	// regular file nor a directory.
	ErrNotAFile = errors.New("not a regular file")
)
