package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/aweris/gitcas/internal/compression"
	"github.com/aweris/gitcas/internal/object"
)

// LocalStore implements Store on the local filesystem using the git loose
// object layout:
//
//	objects/
//	  ce/013625030ba8dba906f756967f9e9ca394464a  (zlib-compressed frame)
//
// Shard directories are created lazily.
type LocalStore struct {
	dir   string
	codec compression.Codec
}

// NewLocalStore returns a store rooted at the objects directory dir.
func NewLocalStore(dir string, codec compression.Codec) *LocalStore {
	return &LocalStore{dir: dir, codec: codec}
}

// Dir returns the objects directory.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(ctx context.Context, id object.ID, framed []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}

	path := s.objectPath(id)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// MkdirAll succeeds when a concurrent writer created the shard first.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create shard %s: %w", id.Shard(), err)
	}

	compressed, err := s.codec.Compress(framed)
	if err != nil {
		return fmt.Errorf("compress object %s: %w", id, err)
	}

	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", id, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, id object.ID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	// The path names the exact 38-character file; a shard holding other
	// objects with the same prefix never matches.
	compressed, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}

	framed, err := s.codec.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decompress: %v", object.ErrCorrupt, id, err)
	}
	return framed, nil
}

func (s *LocalStore) Has(ctx context.Context, id object.ID) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	_, err := os.Stat(s.objectPath(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *LocalStore) List(ctx context.Context) ([]object.ID, error) {
	shards, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var ids []object.ID
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := os.ReadDir(filepath.Join(s.dir, shard.Name()))
		if err != nil {
			return nil, fmt.Errorf("list shard %s: %w", shard.Name(), err)
		}
		for _, f := range files {
			if !f.Type().IsRegular() {
				continue
			}
			id, err := object.ParseID(shard.Name() + f.Name())
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// objectPath returns the filesystem path for an object id.
// Git-style sharding: objects/ab/cd123...
func (s *LocalStore) objectPath(id object.ID) string {
	return filepath.Join(s.dir, id.Shard(), id.Rest())
}

func checkID(id object.ID) error {
	_, err := object.ParseID(string(id))
	return err
}
