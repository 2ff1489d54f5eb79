package gitcas

import (
	"log/slog"

	"github.com/aweris/gitcas/internal/tree"
)

// DefaultConcurrency is the number of files hashed and stored in parallel.
const DefaultConcurrency = tree.DefaultConcurrency

// Options configures a Repository.
type Options struct {
	// Exclude adds entry names or globs skipped by BuildTree, on top of the
	// repository config's snapshot.exclude.
	Exclude     []string
	Concurrency int
	Logger      *slog.Logger
	// CacheSize enables an in-memory LRU of that many decoded objects.
	CacheSize int
	// Store replaces the on-disk object store.
	Store Store

	compression *int
}

// Option is a functional option for configuring Open and Init.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Concurrency: DefaultConcurrency,
		Logger:      slog.Default(),
	}
}

// WithExclude skips entries matching the given names or globs when building trees.
func WithExclude(patterns ...string) Option {
	return func(o *Options) { o.Exclude = append(o.Exclude, patterns...) }
}

// WithConcurrency sets the number of parallel blob writers.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithCompressionLevel overrides core.compression (-1 default, 0-9).
func WithCompressionLevel(level int) Option {
	return func(o *Options) { o.compression = &level }
}

// WithCacheSize keeps up to n objects in an in-memory LRU cache.
func WithCacheSize(n int) Option {
	return func(o *Options) { o.CacheSize = n }
}

// WithStore uses s instead of the objects directory.
func WithStore(s Store) Option {
	return func(o *Options) { o.Store = s }
}
