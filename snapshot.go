package gitcas

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
)

// Snapshot is a read-only fs.FS view of a stored tree. Directories map to
// tree objects and files to blobs; nothing is loaded until it is visited.
type Snapshot struct {
	repo *Repository
	root ID
	// ctx is used for every store read made through the fs.FS methods.
	ctx context.Context

	mu    sync.RWMutex
	trees map[ID][]TreeEntry
}

var (
	_ fs.ReadDirFS  = (*Snapshot)(nil)
	_ fs.ReadFileFS = (*Snapshot)(nil)
	_ fs.StatFS     = (*Snapshot)(nil)
)

// Snapshot opens the tree id as a filesystem.
func (r *Repository) Snapshot(ctx context.Context, id ID) (*Snapshot, error) {
	s := &Snapshot{
		repo:  r,
		root:  id,
		ctx:   ctx,
		trees: make(map[ID][]TreeEntry),
	}
	if _, err := s.tree(id); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the id of the root tree.
func (s *Snapshot) Root() ID { return s.root }

func (s *Snapshot) Open(name string) (fs.File, error) {
	entry, err := s.lookup("open", name)
	if err != nil {
		return nil, err
	}

	if entry.Mode.IsTree() {
		entries, err := s.tree(entry.ID)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &dir{snap: s, info: &fileInfo{entry: entry}, entries: entries}, nil
	}
	if entry.Mode.IsGitlink() {
		return newFile(&fileInfo{entry: entry}, nil), nil
	}

	content, err := s.blob(entry.ID)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return newFile(&fileInfo{entry: entry, size: int64(len(content))}, content), nil
}

func (s *Snapshot) ReadFile(name string) ([]byte, error) {
	entry, err := s.lookup("read", name)
	if err != nil {
		return nil, err
	}
	if entry.Mode.IsTree() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fmt.Errorf("%w: is a directory", ErrNotBlob)}
	}
	if entry.Mode.IsGitlink() {
		return []byte{}, nil
	}
	content, err := s.blob(entry.ID)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return content, nil
}

func (s *Snapshot) ReadDir(name string) ([]fs.DirEntry, error) {
	entry, err := s.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	if !entry.Mode.IsTree() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrNotTree}
	}
	entries, err := s.tree(entry.ID)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	out := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dirEntry{snap: s, entry: e})
	}
	return out, nil
}

func (s *Snapshot) Stat(name string) (fs.FileInfo, error) {
	entry, err := s.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	info, err := s.stat(entry)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return info, nil
}

func (s *Snapshot) stat(entry TreeEntry) (*fileInfo, error) {
	info := &fileInfo{entry: entry}
	// Submodule commits live in another repository.
	if !entry.Mode.IsTree() && !entry.Mode.IsGitlink() {
		content, err := s.blob(entry.ID)
		if err != nil {
			return nil, err
		}
		info.size = int64(len(content))
	}
	return info, nil
}

// lookup resolves a slash-separated path to its tree entry. The root is
// reported as a tree entry named ".".
func (s *Snapshot) lookup(op, name string) (TreeEntry, error) {
	if !fs.ValidPath(name) {
		return TreeEntry{}, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}

	current := TreeEntry{Mode: ModeTree, Name: ".", ID: s.root}
	if name == "." {
		return current, nil
	}

	for _, part := range strings.Split(name, "/") {
		if !current.Mode.IsTree() {
			return TreeEntry{}, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		}
		entries, err := s.tree(current.ID)
		if err != nil {
			return TreeEntry{}, &fs.PathError{Op: op, Path: name, Err: err}
		}
		i, found := slices.BinarySearchFunc(entries, part, func(e TreeEntry, target string) int {
			return strings.Compare(e.Name, target)
		})
		if !found {
			return TreeEntry{}, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		}
		current = entries[i]
	}
	return current, nil
}

// tree loads and caches the entries of a tree, sorted by name.
func (s *Snapshot) tree(id ID) ([]TreeEntry, error) {
	s.mu.RLock()
	entries, ok := s.trees[id]
	s.mu.RUnlock()
	if ok {
		return entries, nil
	}

	entries, err := s.repo.ReadTree(s.ctx, id)
	if err != nil {
		return nil, err
	}
	// Trees written elsewhere may use a different order.
	slices.SortFunc(entries, func(a, b TreeEntry) int { return strings.Compare(a.Name, b.Name) })

	s.mu.Lock()
	s.trees[id] = entries
	s.mu.Unlock()
	return entries, nil
}

func (s *Snapshot) blob(id ID) ([]byte, error) {
	kind, content, err := s.repo.ReadObject(s.ctx, id)
	if err != nil {
		return nil, err
	}
	if kind != KindBlob {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotBlob, id, kind)
	}
	return content, nil
}
