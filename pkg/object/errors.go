package object

import "errors"

var (
	// ErrObjectNotFound reports that no object exists at the derived storage
	// location for a hash.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectCorrupt reports that a stored object failed decompression or
	// that its recomputed hash does not match the requested one.
	ErrObjectCorrupt = errors.New("object corrupt")

	// ErrMalformedTree reports an unparsable tree payload: truncated entries,
	// unknown modes, duplicate or unsorted names.
	ErrMalformedTree = errors.New("malformed tree object")

	// ErrMalformedCommit reports an unparsable commit payload.
	ErrMalformedCommit = errors.New("malformed commit object")
)
