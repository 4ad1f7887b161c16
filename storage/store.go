package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileNotFound reports that a stored file is missing on disk.
var ErrFileNotFound = errors.New("file not found")

// MediaStore keeps uploaded originals and derived thumbnails in two
// sibling directories under one base path.
type MediaStore struct {
	originalDir  string
	thumbnailDir string
}

// NewMediaStore creates the original/ and thumbnail/ directories under
// basePath and returns a store rooted there.
func NewMediaStore(basePath string) (*MediaStore, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	store := &MediaStore{
		originalDir:  filepath.Join(absPath, "original"),
		thumbnailDir: filepath.Join(absPath, "thumbnail"),
	}
	for _, dir := range []string{store.originalDir, store.thumbnailDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create media directory '%s': %w", dir, err)
		}
	}
	return store, nil
}

// SaveOriginal writes an uploaded original under the given file name.
func (s *MediaStore) SaveOriginal(name string, r io.Reader) error {
	return save(s.originalDir, name, r)
}

// SaveThumbnail writes a generated thumbnail under the given file name.
func (s *MediaStore) SaveThumbnail(name string, r io.Reader) error {
	return save(s.thumbnailDir, name, r)
}

// OriginalPath resolves the absolute path of a stored original.
func (s *MediaStore) OriginalPath(name string) (string, error) {
	return resolve(s.originalDir, name)
}

// ThumbnailPath resolves the absolute path of a stored thumbnail.
func (s *MediaStore) ThumbnailPath(name string) (string, error) {
	return resolve(s.thumbnailDir, name)
}

// RemoveOriginal deletes a stored original. A missing file yields
// ErrFileNotFound.
func (s *MediaStore) RemoveOriginal(name string) error {
	return remove(s.originalDir, name)
}

// RemoveThumbnail deletes a stored thumbnail. A missing file yields
// ErrFileNotFound.
func (s *MediaStore) RemoveThumbnail(name string) error {
	return remove(s.thumbnailDir, name)
}

// Health checks that both directories are readable.
func (s *MediaStore) Health() error {
	for _, dir := range []string{s.originalDir, s.thumbnailDir} {
		if _, err := os.ReadDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func save(dir, name string, r io.Reader) error {
	path, err := resolve(dir, name)
	if err != nil {
		return err
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to copy file content to '%s': %w", path, err)
	}
	return nil
}

func remove(dir, name string) error {
	path, err := resolve(dir, name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return fmt.Errorf("failed to delete file '%s': %w", path, err)
	}
	return nil
}

func resolve(dir, name string) (string, error) {
	if !IsValidFileName(name) {
		return "", fmt.Errorf("invalid file name: %s", name)
	}

	path := filepath.Join(dir, name)
	// The resolved path must stay inside dir.
	if !strings.HasPrefix(path, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path: %s", name)
	}
	return path, nil
}

// IsValidFileName restricts stored names to identifier-safe characters.
func IsValidFileName(name string) bool {
	if name == "" || filepath.IsAbs(name) || strings.Contains(name, "..") {
		return false
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}
