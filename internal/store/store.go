// Package store implements the object storage layer.
//
// A Store is a flat key-value mapping from object id to framed object
// bytes. Records are write-once: an id always maps to the same bytes, so
// repeated or concurrent puts of one id are harmless and reads need no
// locking.
package store

import (
	"context"
	"errors"

	"github.com/aweris/gitcas/internal/object"
)

var ErrNotFound = errors.New("store: object not found")

// Store persists framed objects keyed by id.
type Store interface {
	// Put stores framed under id. Storing an id that already exists is a no-op.
	Put(ctx context.Context, id object.ID, framed []byte) error

	// Get returns the framed bytes stored under id, or ErrNotFound.
	Get(ctx context.Context, id object.ID) ([]byte, error)

	// Has reports whether id is stored.
	Has(ctx context.Context, id object.ID) (bool, error)

	// List returns every stored id in ascending order.
	List(ctx context.Context) ([]object.ID, error)
}
