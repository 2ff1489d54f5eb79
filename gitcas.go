package gitcas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aweris/gitcas/internal/compression"
	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/repoconfig"
	"github.com/aweris/gitcas/internal/store"
	"github.com/aweris/gitcas/internal/tree"
)

const defaultHead = "ref: refs/heads/main\n"

// Repository is a git-compatible object database rooted at a repository
// directory (conventionally ".git").
type Repository struct {
	dir     string
	store   Store
	exclude *tree.Excluder
	opts    *Options
	log     *slog.Logger
}

// Init creates the repository layout under dir (objects/, refs/heads/,
// refs/tags/, HEAD and config) and opens it. Existing files are kept, so
// running Init on an initialized repository is safe.
func Init(dir string, opts ...Option) (*Repository, error) {
	for _, sub := range []string{"objects", filepath.Join("refs", "heads"), filepath.Join("refs", "tags")} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("init %s: %w", dir, err)
		}
	}

	head := filepath.Join(dir, "HEAD")
	if _, err := os.Stat(head); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(head, []byte(defaultHead), 0o644); err != nil {
			return nil, fmt.Errorf("init %s: %w", dir, err)
		}
	}

	cfgPath := filepath.Join(dir, "config")
	if !repoconfig.Exists(cfgPath) {
		options := defaultOptions()
		for _, opt := range opts {
			opt(options)
		}
		cfg := repoconfig.Default()
		if options.compression != nil {
			cfg.Compression = *options.compression
		}
		if err := repoconfig.Write(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	return Open(dir, opts...)
}

// Open opens the repository at dir. Settings from dir/config are applied
// first; options override them.
func Open(dir string, opts ...Option) (*Repository, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := repoconfig.Load(filepath.Join(dir, "config"))
	if err != nil {
		return nil, err
	}
	if options.compression != nil {
		cfg.Compression = *options.compression
	}

	s := options.Store
	if s == nil {
		objectsDir := filepath.Join(dir, "objects")
		info, err := os.Stat(objectsDir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		codec, err := compression.NewZlib(cfg.Compression)
		if err != nil {
			return nil, fmt.Errorf("core.compression: %w", err)
		}
		s = store.NewLocalStore(objectsDir, codec)
	}
	if options.CacheSize > 0 {
		cached, err := store.NewCachedStore(s, options.CacheSize)
		if err != nil {
			return nil, err
		}
		s = cached
	}

	exclude, err := tree.NewExcluder(append(cfg.Exclude, options.Exclude...)...)
	if err != nil {
		return nil, err
	}

	log := options.Logger.With("repo", dir)
	r := &Repository{
		dir:     dir,
		store:   s,
		exclude: exclude,
		opts:    options,
		log:     log,
	}
	return r, nil
}

// Dir returns the repository directory.
func (r *Repository) Dir() string { return r.dir }

// Store returns the underlying object store.
func (r *Repository) Store() Store { return r.store }

// Exclude returns the configured patterns BuildTree skips.
func (r *Repository) Exclude() []string { return r.exclude.Patterns() }

// HashObject returns the id content would be stored under, without writing.
func (r *Repository) HashObject(kind Kind, content []byte) ID {
	return HashObject(kind, content)
}

// AddObject stores content as an object of the given kind and returns its
// id. Tree content must be a well-formed tree payload.
func (r *Repository) AddObject(ctx context.Context, kind Kind, content []byte) (ID, error) {
	if err := ValidateObject(kind, content); err != nil {
		return "", fmt.Errorf("add object: %w", err)
	}

	id, framed := object.Address(kind, content)
	if err := r.store.Put(ctx, id, framed); err != nil {
		return "", err
	}
	r.log.Debug("object stored", "kind", kind, "id", id, "size", len(content))
	return id, nil
}

// ReadObject returns the kind and content of the object id. The stored
// frame must hash back to id; anything else is reported as ErrCorrupt.
func (r *Repository) ReadObject(ctx context.Context, id ID) (Kind, []byte, error) {
	if _, err := object.ParseID(string(id)); err != nil {
		return "", nil, err
	}

	framed, err := r.store.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if sum := object.Sum(framed); sum != id {
		return "", nil, fmt.Errorf("%w: %s: content hashes to %s", ErrCorrupt, id, sum)
	}

	kind, content, err := object.Decode(framed)
	if err != nil {
		return "", nil, fmt.Errorf("object %s: %w", id, err)
	}
	return kind, content, nil
}

// ReadTree returns the entries of the tree id in stored order.
func (r *Repository) ReadTree(ctx context.Context, id ID) ([]TreeEntry, error) {
	kind, content, err := r.ReadObject(ctx, id)
	if err != nil {
		return nil, err
	}
	if kind != KindTree {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotTree, id, kind)
	}
	entries, err := DecodeTree(content)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", id, err)
	}
	return entries, nil
}

// BuildTree snapshots the directory dir into blob and tree objects and
// returns the root tree id.
func (r *Repository) BuildTree(ctx context.Context, dir string) (ID, error) {
	b, err := r.builderFor(r.store, dir)
	if err != nil {
		return "", err
	}
	id, err := b.Build(ctx, dir)
	if err != nil {
		return "", err
	}
	r.log.Info("tree built", "path", dir, "id", id)
	return id, nil
}

// HashTree computes the root tree id of dir without writing any object.
func (r *Repository) HashTree(ctx context.Context, dir string) (ID, error) {
	b, err := r.builderFor(store.Discard{}, dir)
	if err != nil {
		return "", err
	}
	return b.Build(ctx, dir)
}

// builderFor returns a builder writing to s. When the repository directory
// lies inside dir, its name is excluded as well, so a snapshot never
// contains its own object store.
func (r *Repository) builderFor(s store.Store, dir string) (*tree.Builder, error) {
	exclude := r.exclude
	if name, ok := r.nestedIn(dir); ok && !exclude.Match(name) {
		e, err := tree.NewExcluder(append(exclude.Patterns(), escapeGlob(name))...)
		if err != nil {
			return nil, err
		}
		exclude = e
	}
	return tree.NewBuilder(s,
		tree.WithExcluder(exclude),
		tree.WithConcurrency(r.opts.Concurrency),
		tree.WithLogger(r.log),
	), nil
}

// nestedIn reports the base name of the repository directory if it lies
// under dir.
func (r *Repository) nestedIn(dir string) (string, bool) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	absRepo, err := filepath.Abs(r.dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absRepo)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Base(absRepo), true
}

func escapeGlob(name string) string {
	var b strings.Builder
	for _, c := range name {
		if strings.ContainsRune(`\*?[`, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
