package repository

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/domain/repository"
)

// thumbDir is the reserved thumbnail namespace inside the storage root.
// It is excluded from List so thumbnails never show up as entries.
const thumbDir = ".thumbs"

// DiskStorage keeps entries as plain files in a flat directory. Saves
// go through a temp file plus rename so an interrupted upload leaves
// either a complete file or nothing.
type DiskStorage struct {
	fs   afero.Fs
	root string
}

// NewDiskStorage creates the storage root and thumbnail namespace if
// they do not exist yet.
func NewDiskStorage(fs afero.Fs, root string) (*DiskStorage, error) {
	if err := fs.MkdirAll(filepath.Join(root, thumbDir), 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{fs: fs, root: root}, nil
}

func (s *DiskStorage) entryPath(name string) string {
	return filepath.Join(s.root, name)
}

func (s *DiskStorage) thumbPath(name string) string {
	return filepath.Join(s.root, thumbDir, name)
}

// Save writes the stream to a temp file in the storage root and renames
// it into place, mirroring the single-filesystem rename discipline so a
// dropped connection never leaves a partial entry visible.
func (s *DiskStorage) Save(name string, r io.Reader) (int64, error) {
	tmp, err := afero.TempFile(s.fs, s.root, ".upload-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	defer s.fs.Remove(tmpName)

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}

	if err := s.fs.Rename(tmpName, s.entryPath(name)); err != nil {
		return 0, err
	}
	return written, nil
}

func (s *DiskStorage) Open(name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.entryPath(name))
	if os.IsNotExist(err) {
		return nil, entities.ErrNotFound
	}
	return f, err
}

// Delete removes the entry and its thumbnail. The thumbnail is
// lifecycle-bound to the entry; a missing thumbnail is not an error.
func (s *DiskStorage) Delete(name string) error {
	err := s.fs.Remove(s.entryPath(name))
	if os.IsNotExist(err) {
		return entities.ErrNotFound
	}
	if err != nil {
		return err
	}
	if rerr := s.fs.Remove(s.thumbPath(name)); rerr != nil && !os.IsNotExist(rerr) {
		return rerr
	}
	return nil
}

func (s *DiskStorage) List() ([]repository.EntryInfo, error) {
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, err
	}

	entries := make([]repository.EntryInfo, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		// In-flight temp files are not catalog entries.
		if strings.HasPrefix(info.Name(), ".upload-") {
			continue
		}
		entries = append(entries, repository.EntryInfo{
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

func (s *DiskStorage) Exists(name string) (bool, error) {
	_, err := s.fs.Stat(s.entryPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *DiskStorage) StatTime(name string) (time.Time, error) {
	info, err := s.fs.Stat(s.entryPath(name))
	if os.IsNotExist(err) {
		return time.Time{}, entities.ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *DiskStorage) SaveThumb(name string, data []byte) error {
	return afero.WriteFile(s.fs, s.thumbPath(name), data, 0o644)
}

func (s *DiskStorage) OpenThumb(name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.thumbPath(name))
	if os.IsNotExist(err) {
		return nil, entities.ErrNotFound
	}
	return f, err
}

func (s *DiskStorage) HasThumb(name string) bool {
	_, err := s.fs.Stat(s.thumbPath(name))
	return err == nil
}
