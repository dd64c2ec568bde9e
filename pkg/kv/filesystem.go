package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filesystem persists each blob as one JSON file under a base directory.
type Filesystem struct {
	baseDir string
}

// NewFilesystem ensures the base directory exists and returns a handle.
func NewFilesystem(baseDir string) (*Filesystem, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Filesystem{baseDir: baseDir}, nil
}

func (s *Filesystem) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

func (s *Filesystem) Set(_ context.Context, key string, value []byte) error {
	path := s.resolve(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *Filesystem) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete state file: %w", err)
	}
	return nil
}

func (s *Filesystem) resolve(key string) string {
	return filepath.Join(s.baseDir, filepath.Base(key)+".json")
}
