package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage is a root-scoped file store for space images and their thumbnails.
// Every path is resolved through the validator so a crafted name can never
// escape the root.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *Storage) Resolve(name string) (string, error) {
	return s.validator.ResolvePath(name)
}

func (s *Storage) Save(name string, reader io.Reader) (int64, error) {
	resolved, err := s.Resolve(name)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return 0, fmt.Errorf("create parent dir: %w", err)
	}

	file, err := os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %q for write: %w", name, err)
	}

	written, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if copyErr != nil {
		return written, fmt.Errorf("write %q: %w", name, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("close %q: %w", name, closeErr)
	}
	return written, nil
}

func (s *Storage) Open(name string) (*os.File, os.FileInfo, error) {
	resolved, err := s.Resolve(name)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return file, info, nil
}

func (s *Storage) Remove(name string) error {
	resolved, err := s.Resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}
