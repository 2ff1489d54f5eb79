package store

import (
	"context"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aweris/gitcas/internal/object"
)

// CachedStore keeps recently used framed objects in memory in front of
// another Store. Records never change once written, so entries are never
// invalidated.
type CachedStore struct {
	Store
	cache *lru.Cache[object.ID, []byte]
}

// NewCachedStore wraps s with an LRU cache holding up to size objects.
func NewCachedStore(s Store, size int) (*CachedStore, error) {
	cache, err := lru.New[object.ID, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create object cache: %w", err)
	}
	return &CachedStore{Store: s, cache: cache}, nil
}

func (c *CachedStore) Get(ctx context.Context, id object.ID) ([]byte, error) {
	if framed, ok := c.cache.Get(id); ok {
		return slices.Clone(framed), nil
	}
	framed, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, slices.Clone(framed))
	return framed, nil
}

func (c *CachedStore) Put(ctx context.Context, id object.ID, framed []byte) error {
	if c.cache.Contains(id) {
		return nil
	}
	return c.Store.Put(ctx, id, framed)
}

func (c *CachedStore) Has(ctx context.Context, id object.ID) (bool, error) {
	if c.cache.Contains(id) {
		return true, nil
	}
	return c.Store.Has(ctx, id)
}

// Len returns the number of cached objects.
func (c *CachedStore) Len() int { return c.cache.Len() }
