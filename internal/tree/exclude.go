package tree

import (
	"fmt"
	"path"
)

// Excluder decides which directory entries a scan skips. Patterns are
// matched against the entry's base name with path.Match, so both literal
// names (".git") and globs ("*.o") work.
type Excluder struct {
	patterns []string
}

// NewExcluder validates patterns and returns an Excluder.
func NewExcluder(patterns ...string) (*Excluder, error) {
	e := &Excluder{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		e.patterns = append(e.patterns, p)
	}
	return e, nil
}

// Match reports whether name is excluded. A nil Excluder excludes nothing.
func (e *Excluder) Match(name string) bool {
	if e == nil {
		return false
	}
	for _, p := range e.patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns.
func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.patterns...)
}
