package entities

import (
	"io"
	"time"
)

// StoredEntry is the persisted catalog record for one uploaded file.
// It is created on a successful save and never mutated afterwards; the
// storage directory is the sole source of truth, so every field here is
// re-derivable from a directory listing plus the entry's bytes.
type StoredEntry struct {
	StoredName    string    `json:"name"`
	OriginalName  string    `json:"original_name"`
	SizeBytes     int64     `json:"size"`
	CreatedAt     time.Time `json:"uploaded_at"`
	ContentDigest string    `json:"hash,omitempty"`
	HasThumbnail  bool      `json:"has_thumbnail"`
}

// UploadFile is one file of an ingestion batch. Ephemeral: it only lives
// for the duration of a single Ingest call.
type UploadFile struct {
	OriginalName string
	Reader       io.Reader
	DeclaredSize int64
}

// Limits bounds a single ingestion batch.
type Limits struct {
	// MaxContentLength caps the declared total size of the whole batch.
	MaxContentLength int64
	// MaxFileSize caps each individual file, measured from the actual
	// stream, not the declared size.
	MaxFileSize int64
}

// Outcome reports the result of ingesting one file of a batch. Outcomes
// are returned in batch order, one per submitted file.
type Outcome struct {
	OriginalName string
	Success      bool
	StoredName   string
	Digest       string
	Err          error
}

// DateGroup is a read-time projection grouping entries that share an
// inferred calendar date. Never persisted; recomputed on every listing.
type DateGroup struct {
	Date    time.Time
	Entries []StoredEntry
	Count   int
}

// CatalogPage is one page of the date-grouped catalog. Pagination counts
// groups, not individual entries.
type CatalogPage struct {
	Groups       []DateGroup
	TotalEntries int
	TotalGroups  int
	TotalPages   int
	Page         int
}

// Category buckets a file by its extension for presentation and for the
// image-only thumbnail rule.
type Category string

const (
	CategoryImage        Category = "image"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryArchive      Category = "archive"
	CategoryAudio        Category = "audio"
	CategoryVideo        Category = "video"
	CategoryCode         Category = "code"
	CategoryOther        Category = "other"
)
