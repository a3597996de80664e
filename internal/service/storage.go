package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned by Storage.Save when content exceeds the upload limit
var ErrTooLarge = errors.New("file exceeds maximum upload size")

// Storage holds the bytes of uploaded leaf files
type Storage interface {
	// Save writes content under name and returns the number of bytes written
	Save(name string, content io.Reader) (int64, error)
	Remove(name string) error
}

// DiskStorage stores uploads as flat files in one directory
type DiskStorage struct {
	dir     string
	maxSize int64
}

// NewDiskStorage creates a DiskStorage rooted at dir. maxSize <= 0 disables the limit.
func NewDiskStorage(dir string, maxSize int64) *DiskStorage {
	return &DiskStorage{dir: dir, maxSize: maxSize}
}

func (s *DiskStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *DiskStorage) Save(name string, content io.Reader) (int64, error) {
	target, err := s.path(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	src := content
	if s.maxSize > 0 {
		// one extra byte tells an exact fit from an overflow
		src = io.LimitReader(content, s.maxSize+1)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(target)
		return 0, err
	}
	return n, nil
}

// Remove deletes the stored file. Removing a missing file is not an error.
func (s *DiskStorage) Remove(name string) error {
	target, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
