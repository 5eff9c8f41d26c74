package store

import (
	"context"
	"sync"

	"github.com/matzehuels/flowdeck/pkg/persist"
)

// MemoryStore keeps encoded documents in a map. Loaded documents never share
// memory with saved ones.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, name string, doc persist.Document) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, name string) (persist.Document, error) {
	if err := checkName(name); err != nil {
		return persist.Document{}, err
	}
	s.mu.RLock()
	data, ok := s.docs[name]
	s.mu.RUnlock()
	if !ok {
		return persist.Document{}, notFound(name)
	}
	return decode(data)
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return notFound(name)
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	return sortedNames(names), nil
}

func (s *MemoryStore) Close() error { return nil }
