package entities

import "errors"

// Ingestion and catalog errors. Per-file errors are recorded in that
// file's Outcome and never abort sibling files; ErrBatchTooLarge is the
// one batch-level error and is raised before any write happens.
var (
	ErrEmptyName      = errors.New("empty file name")
	ErrInvalidName    = errors.New("invalid file name")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge   = errors.New("file exceeds size limit")
	ErrBatchTooLarge  = errors.New("batch exceeds total size limit")
	ErrNotFound       = errors.New("file not found")
)

// ErrorKind maps an ingestion error to its wire-level identifier.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrTypeNotAllowed):
		return "type_not_allowed"
	case errors.Is(err, ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "io_error"
	}
}
