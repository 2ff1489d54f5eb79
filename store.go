package gitcas

import (
	"fmt"

	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/store"
)

// Store is the key-value interface objects are persisted through.
// Re-exported from internal/store for convenience.
type Store = store.Store

// Object identity and tree types, re-exported from internal/object.
type (
	ID        = object.ID
	Kind      = object.Kind
	Mode      = object.Mode
	TreeEntry = object.TreeEntry
)

const (
	KindBlob   = object.KindBlob
	KindTree   = object.KindTree
	KindCommit = object.KindCommit
	KindTag    = object.KindTag

	ModeTree = object.ModeTree
	ModeBlob = object.ModeBlob
)

// ParseID validates a full 40-character hex object id.
func ParseID(s string) (ID, error) { return object.ParseID(s) }

// HashObject returns the id of an object without storing it.
func HashObject(kind Kind, content []byte) ID { return object.HashObject(kind, content) }

// DecodeTree parses a tree payload into its entries, in stored order.
func DecodeTree(content []byte) ([]TreeEntry, error) { return object.DecodeTree(content) }

// ValidateObject checks that content can be stored as an object of kind.
// Tree content must be a well-formed tree payload.
func ValidateObject(kind Kind, content []byte) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if kind == KindTree {
		if _, err := object.DecodeTree(content); err != nil {
			return fmt.Errorf("tree: %w", err)
		}
	}
	return nil
}

// NewMemoryStore returns an in-memory Store, useful with WithStore.
func NewMemoryStore() Store { return store.NewMemoryStore() }
