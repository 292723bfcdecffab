// Package types holds the wire-level request and response shapes of
// the HTTP API.
package types

import "time"

// FileOutcome reports one file of an upload batch.
type FileOutcome struct {
	Filename string `json:"filename"`
	SavedAs  string `json:"saved_as,omitempty"`
	Success  bool   `json:"success"`
	Hash     string `json:"hash,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadResponse is the batch summary plus per-file outcomes. Every
// submitted file appears exactly once; nothing is silently dropped.
type UploadResponse struct {
	Success      bool          `json:"success"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Files        []FileOutcome `json:"files"`
}

// ListedEntry is one catalog entry as presented to clients.
type ListedEntry struct {
	Name         string    `json:"name"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	SizeHuman    string    `json:"size_human"`
	Category     string    `json:"category"`
	Mime         string    `json:"mime"`
	UploadedAt   time.Time `json:"uploaded_at"`
	HasThumbnail bool      `json:"has_thumbnail"`
}

// ListedGroup is one date group of the catalog page.
type ListedGroup struct {
	Date    string        `json:"date"`
	Count   int           `json:"count"`
	Entries []ListedEntry `json:"entries"`
}

// ListResponse is one page of the date-grouped catalog.
type ListResponse struct {
	Groups       []ListedGroup `json:"groups"`
	TotalEntries int           `json:"total_entries"`
	TotalGroups  int           `json:"total_groups"`
	TotalPages   int           `json:"total_pages"`
	Page         int           `json:"page"`
}

// LoginRequest carries credential verification input.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
