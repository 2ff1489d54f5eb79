package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aweris/gitcas/internal/object"
)

// MemoryStore keeps framed objects in a map. It is used for tests and for
// computing ids without touching disk.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[object.ID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[object.ID][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, id object.ID, framed []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		s.objects[id] = slices.Clone(framed)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id object.ID) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	framed, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return slices.Clone(framed), nil
}

func (s *MemoryStore) Has(ctx context.Context, id object.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[id]
	return ok, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]object.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.objects)), nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Discard accepts every Put and stores nothing. Builders writing to it
// only compute ids.
type Discard struct{}

func (Discard) Put(ctx context.Context, id object.ID, framed []byte) error { return checkID(id) }

func (Discard) Get(ctx context.Context, id object.ID) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (Discard) Has(ctx context.Context, id object.ID) (bool, error) { return false, nil }

func (Discard) List(ctx context.Context) ([]object.ID, error) { return nil, nil }
