// Package filetype maps file extensions to presentation categories and
// MIME types. Pure lookup tables; content sniffing is only used when a
// file is served and its extension is unknown.
package filetype

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/depot-sh/depot/internal/domain/entities"
)

var categories = map[string]entities.Category{
	".jpg": entities.CategoryImage, ".jpeg": entities.CategoryImage,
	".png": entities.CategoryImage, ".gif": entities.CategoryImage,
	".bmp": entities.CategoryImage, ".webp": entities.CategoryImage,
	".svg": entities.CategoryImage,

	".pdf": entities.CategoryDocument, ".doc": entities.CategoryDocument,
	".docx": entities.CategoryDocument, ".txt": entities.CategoryDocument,
	".md": entities.CategoryDocument, ".rtf": entities.CategoryDocument,
	".odt": entities.CategoryDocument,

	".xls": entities.CategorySpreadsheet, ".xlsx": entities.CategorySpreadsheet,
	".csv": entities.CategorySpreadsheet, ".ods": entities.CategorySpreadsheet,

	".ppt": entities.CategoryPresentation, ".pptx": entities.CategoryPresentation,
	".odp": entities.CategoryPresentation,

	".zip": entities.CategoryArchive, ".tar": entities.CategoryArchive,
	".gz": entities.CategoryArchive, ".7z": entities.CategoryArchive,
	".rar": entities.CategoryArchive,

	".mp3": entities.CategoryAudio, ".wav": entities.CategoryAudio,
	".flac": entities.CategoryAudio, ".ogg": entities.CategoryAudio,
	".m4a": entities.CategoryAudio,

	".mp4": entities.CategoryVideo, ".mkv": entities.CategoryVideo,
	".mov": entities.CategoryVideo, ".avi": entities.CategoryVideo,
	".webm": entities.CategoryVideo,

	".go": entities.CategoryCode, ".py": entities.CategoryCode,
	".js": entities.CategoryCode, ".ts": entities.CategoryCode,
	".c": entities.CategoryCode, ".h": entities.CategoryCode,
	".sh": entities.CategoryCode, ".json": entities.CategoryCode,
	".yaml": entities.CategoryCode, ".yml": entities.CategoryCode,
	".html": entities.CategoryCode, ".css": entities.CategoryCode,
	".sql": entities.CategoryCode,
}

// CategoryOf buckets a file name by extension. Unknown extensions are
// CategoryOther, never an error.
func CategoryOf(name string) entities.Category {
	ext := strings.ToLower(filepath.Ext(name))
	if cat, ok := categories[ext]; ok {
		return cat
	}
	return entities.CategoryOther
}

// IsImage reports whether the name's extension belongs to a raster
// image format the thumbnailer can decode. SVG is vector and excluded.
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// MimeOf resolves a MIME type from the extension alone.
func MimeOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if typ := mime.TypeByExtension(ext); typ != "" {
		return typ
	}
	return "application/octet-stream"
}

// Sniff detects the MIME type from content. Used when serving files
// whose extension resolves to nothing useful; reads at most the header
// mimetype needs and errors only on read failure.
func Sniff(r io.Reader) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// SniffBytes detects the MIME type from an already buffered header.
func SniffBytes(header []byte) string {
	return mimetype.Detect(header).String()
}

// Ext returns the lowercased extension without the leading dot, or ""
// when the name has none. Used by the ingestion allow-list check.
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
