// Package tree turns a directory hierarchy into blob and tree objects.
//
// Building happens in two passes. Scan walks the filesystem and produces
// an in-memory Node graph without touching the store. Write then persists
// every file as a blob, in parallel, and assembles tree objects bottom-up
// in sorted name order, so the resulting root id does not depend on
// enumeration or completion order.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/store"
)

// DefaultConcurrency is the number of files hashed and stored in parallel.
const DefaultConcurrency = 8

var ErrNotDir = errors.New("tree: not a directory")

// Builder scans directories and writes their objects to a store.
type Builder struct {
	store       store.Store
	exclude     *Excluder
	concurrency int
	log         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithExcluder sets the entries skipped during scans.
func WithExcluder(e *Excluder) Option {
	return func(b *Builder) { b.exclude = e }
}

// WithConcurrency sets the number of parallel blob writers.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBuilder returns a Builder writing to s.
func NewBuilder(s store.Store, opts ...Option) *Builder {
	b := &Builder{
		store:       s,
		concurrency: DefaultConcurrency,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build snapshots the directory dir and returns the root tree id.
func (b *Builder) Build(ctx context.Context, dir string) (object.ID, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDir, dir)
	}

	fsys := os.DirFS(dir)
	root, err := b.Scan(fsys, ".")
	if err != nil {
		return "", err
	}
	return b.Write(ctx, fsys, root)
}

// Scan walks root inside fsys and returns its node graph. Excluded names,
// symlinks and other special files are left out.
func (b *Builder) Scan(fsys fs.FS, root string) (*Node, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	node := &Node{Name: path.Base(root), Path: root, Mode: object.ModeTree}
	if err := b.scanDir(fsys, node); err != nil {
		return nil, err
	}
	return node, nil
}

func (b *Builder) scanDir(fsys fs.FS, dir *Node) error {
	entries, err := fs.ReadDir(fsys, dir.Path)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir.Path, err)
	}
	// Tree ids depend on byte order of names, whatever the filesystem returned.
	slices.SortFunc(entries, func(x, y fs.DirEntry) int {
		return strings.Compare(x.Name(), y.Name())
	})

	dir.Children = make([]*Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if b.exclude.Match(name) {
			b.log.Debug("entry excluded", "path", path.Join(dir.Path, name))
			continue
		}

		child := &Node{Name: name, Path: path.Join(dir.Path, name)}
		switch typ := entry.Type(); {
		case typ.IsDir():
			child.Mode = object.ModeTree
			if err := b.scanDir(fsys, child); err != nil {
				return err
			}
		case typ.IsRegular():
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", child.Path, err)
			}
			child.Mode = object.FileMode(filePerm(info.Mode()))
			child.Size = info.Size()
		default:
			b.log.Warn("skipping special file", "path", child.Path, "type", typ.String())
			continue
		}
		dir.Children = append(dir.Children, child)
	}
	return nil
}

// filePerm returns the permission bits recorded for a file, falling back
// to 0644 where the platform does not report them.
func filePerm(mode fs.FileMode) fs.FileMode {
	perm := mode.Perm()
	if perm == 0 || runtime.GOOS == "windows" {
		return fs.FileMode(object.DefaultPerm)
	}
	return perm
}

// Write stores every blob and tree under root and returns the root tree id.
// Node IDs are filled in as a side effect. If Write fails or ctx is
// canceled, objects already stored remain valid.
func (b *Builder) Write(ctx context.Context, fsys fs.FS, root *Node) (object.ID, error) {
	if !root.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDir, root.Path)
	}

	if err := b.writeBlobs(ctx, fsys, root); err != nil {
		return "", err
	}
	id, err := b.writeTree(ctx, root)
	if err != nil {
		return "", err
	}

	files, dirs := root.Counts()
	b.log.Debug("snapshot written", "root", id, "blobs", files, "trees", dirs)
	return id, nil
}

func (b *Builder) writeBlobs(ctx context.Context, fsys fs.FS, root *Node) error {
	p := pool.New().WithMaxGoroutines(b.concurrency).WithContext(ctx).WithCancelOnError()

	root.Walk(func(n *Node) {
		if n.IsDir() {
			return
		}
		// Each task owns exactly one node.
		p.Go(func(ctx context.Context) error {
			data, err := fs.ReadFile(fsys, n.Path)
			if err != nil {
				return fmt.Errorf("read %s: %w", n.Path, err)
			}
			id, framed := object.Address(object.KindBlob, data)
			if err := b.store.Put(ctx, id, framed); err != nil {
				return fmt.Errorf("store %s: %w", n.Path, err)
			}
			n.ID = id
			n.Size = int64(len(data))
			b.log.Debug("blob stored", "path", n.Path, "id", id, "size", len(data))
			return nil
		})
	})

	return p.Wait()
}

func (b *Builder) writeTree(ctx context.Context, dir *Node) (object.ID, error) {
	for _, child := range dir.Children {
		if !child.IsDir() {
			continue
		}
		if _, err := b.writeTree(ctx, child); err != nil {
			return "", err
		}
	}

	payload, err := object.EncodeTree(dir.Entries())
	if err != nil {
		return "", fmt.Errorf("encode tree %s: %w", dir.Path, err)
	}
	id, framed := object.Address(object.KindTree, payload)
	if err := b.store.Put(ctx, id, framed); err != nil {
		return "", fmt.Errorf("store tree %s: %w", dir.Path, err)
	}
	dir.ID = id
	b.log.Debug("tree written", "path", dir.Path, "id", id, "entries", len(dir.Children))
	return id, nil
}
