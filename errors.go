package gitcas

import (
	"errors"

	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/store"
	"github.com/aweris/gitcas/internal/tree"
)

var (
	ErrNotFound      = store.ErrNotFound
	ErrCorrupt       = object.ErrCorrupt
	ErrInvalidID     = object.ErrInvalidID
	ErrInvalidEntry  = object.ErrInvalidEntry
	ErrNotDir        = tree.ErrNotDir
	ErrNotTree       = errors.New("gitcas: not a tree")
	ErrNotBlob       = errors.New("gitcas: not a blob")
	ErrInvalidKind   = errors.New("gitcas: invalid object kind")
	ErrNotRepository = errors.New("gitcas: not a repository")
)
