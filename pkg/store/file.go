package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/flowdeck/pkg/persist"
)

const fileExt = ".json"

// FileStore is a directory of JSON documents, one file per name.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed.
// If baseDir is empty, defaults to [DefaultDir].
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory documents are written to.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) documentPath(name string) string {
	return filepath.Join(s.baseDir, name+fileExt)
}

func (s *FileStore) Save(ctx context.Context, name string, doc persist.Document) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Atomic replace.
	tmp := s.documentPath(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	if err := os.Rename(tmp, s.documentPath(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (persist.Document, error) {
	if err := checkName(name); err != nil {
		return persist.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.documentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return persist.Document{}, notFound(name)
		}
		return persist.Document{}, fmt.Errorf("read document file: %w", err)
	}
	return decode(data)
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.documentPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return fmt.Errorf("delete document file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), fileExt))
	}
	return sortedNames(names), nil
}

func (s *FileStore) Close() error { return nil }
