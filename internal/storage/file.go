package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage stores each key as <key>.json in a directory.
type FileStorage struct {
	directory string
}

// NewFileStorage creates a FileStorage rooted at directory. The directory is created on first write.
func NewFileStorage(directory string) *FileStorage {
	return &FileStorage{directory: directory}
}

func (s *FileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.directory, key+".json"), nil
}

// Read returns ErrNotFound for a missing or empty file.
func (s *FileStorage) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// Write replaces the file atomically through a temporary file in the same directory.
func (s *FileStorage) Write(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}

	tmp, err := os.CreateTemp(s.directory, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp() > %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write() > %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Sync() > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
