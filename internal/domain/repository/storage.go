package repository

import (
	"io"
	"time"
)

// EntryInfo is the directory-listing view of one stored file. The
// listing is the catalog's source of truth; everything else is derived
// from it on each read.
type EntryInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Storage is the durable backing store for the repository: a flat
// namespace of uniquely named files plus one reserved thumbnail
// namespace keyed by the same names. Implementations must make Save
// atomic from the catalog's point of view (a failed or abandoned save
// leaves no partial entry visible in List).
type Storage interface {
	// Save persists the stream under name and returns the number of
	// bytes written.
	Save(name string, r io.Reader) (int64, error)

	// Open streams a stored file.
	Open(name string) (io.ReadCloser, error)

	// Delete removes a stored file and its thumbnail, if any.
	Delete(name string) error

	// List enumerates stored entries, thumbnail namespace excluded.
	List() ([]EntryInfo, error)

	// Exists reports whether name is stored.
	Exists(name string) (bool, error)

	// StatTime returns the storage timestamp of name.
	StatTime(name string) (time.Time, error)

	// SaveThumb persists a thumbnail keyed by the entry's stored name.
	SaveThumb(name string, data []byte) error

	// OpenThumb streams the thumbnail for name.
	OpenThumb(name string) (io.ReadCloser, error)

	// HasThumb reports whether a thumbnail exists for name. A missing
	// thumbnail is an ordinary condition, not an error.
	HasThumb(name string) bool
}
