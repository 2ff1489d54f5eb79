package object

import (
	"bytes"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

// Mode is a tree entry mode: an entry-type flag plus permission bits.
type Mode uint32

const (
	ModeTree    Mode = 0o040000
	ModeBlob    Mode = 0o100000
	ModeSymlink Mode = 0o120000
	ModeGitlink Mode = 0o160000

	ModePerm    Mode = 0o777
	DefaultPerm Mode = 0o644

	modeTypeMask Mode = 0o170000
)

// FileMode returns the mode of a regular file with the given permission bits.
func FileMode(perm fs.FileMode) Mode {
	return ModeBlob | Mode(perm.Perm())
}

// IsTree reports whether the entry refers to a tree.
func (m Mode) IsTree() bool { return m&modeTypeMask == ModeTree }

// IsBlob reports whether the entry refers to a blob.
func (m Mode) IsBlob() bool { return m&modeTypeMask == ModeBlob }

// IsSymlink reports whether the entry is a symbolic link stored as a blob.
func (m Mode) IsSymlink() bool { return m&modeTypeMask == ModeSymlink }

// IsGitlink reports whether the entry refers to a commit in another
// repository (a submodule).
func (m Mode) IsGitlink() bool { return m&modeTypeMask == ModeGitlink }

// Kind is the object kind the mode refers to. Unknown entry types are
// treated as blobs.
func (m Mode) Kind() Kind {
	switch {
	case m.IsTree():
		return KindTree
	case m.IsGitlink():
		return KindCommit
	}
	return KindBlob
}

// Perm returns the permission bits as an fs.FileMode.
func (m Mode) Perm() fs.FileMode { return fs.FileMode(m & ModePerm) }

// String formats the mode as 6 zero-padded octal digits.
func (m Mode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// ParseMode parses an octal mode of five or six digits. Five-digit tree
// modes ("40000") as written by git are accepted, and so is any entry type
// (symlinks, submodules) that other tools record.
func ParseMode(s string) (Mode, error) {
	if len(s) < 5 || len(s) > 6 {
		return 0, fmt.Errorf("%w: mode %q", ErrCorrupt, s)
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: mode %q: %v", ErrCorrupt, s, err)
	}
	return Mode(v), nil
}

// TreeEntry is one (mode, name, id) row of a tree.
type TreeEntry struct {
	Mode Mode
	Name string
	ID   ID
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\x00")
}

// EncodeTree serializes entries in ascending byte order of name. The input
// slice is not modified.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b TreeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		if !validName(e.Name) {
			return nil, fmt.Errorf("%w: name %q", ErrInvalidEntry, e.Name)
		}
		if !e.Mode.IsTree() && !e.Mode.IsBlob() {
			return nil, fmt.Errorf("%w: %s: unsupported mode %s", ErrInvalidEntry, e.Name, e.Mode)
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidEntry, e.Name)
		}
		if _, err := ParseID(string(e.ID)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntry, e.Name, err)
		}
		raw := e.ID.Raw()

		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw[:])
	}
	return buf.Bytes(), nil
}

// DecodeTree parses a tree payload into its entries, in stored order.
func DecodeTree(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	p := NewParser(payload)
	for !p.Done() {
		mode, err := p.ReadUntil(' ')
		if err != nil {
			return nil, fmt.Errorf("tree entry %d mode: %w", len(entries), err)
		}
		name, err := p.ReadUntil(0)
		if err != nil {
			return nil, fmt.Errorf("tree entry %d name: %w", len(entries), err)
		}
		raw, err := p.ReadN(IDSize)
		if err != nil {
			return nil, fmt.Errorf("tree entry %d id: %w", len(entries), err)
		}

		m, err := ParseMode(string(mode))
		if err != nil {
			return nil, fmt.Errorf("tree entry %d: %w", len(entries), err)
		}
		id, _ := IDFromRaw(raw)
		entries = append(entries, TreeEntry{Mode: m, Name: string(name), ID: id})
	}
	return entries, nil
}
