package gitcas

import (
	"bytes"
	"io"
	"io/fs"
	"time"
)

// file is an open blob. Reads are served from memory.
type file struct {
	info *fileInfo
	*bytes.Reader
}

func newFile(info *fileInfo, content []byte) *file {
	return &file{info: info, Reader: bytes.NewReader(content)}
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *file) Close() error { return nil }

// dir is an open tree.
type dir struct {
	snap    *Snapshot
	info    *fileInfo
	entries []TreeEntry
	offset  int
}

func (d *dir) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: fs.ErrInvalid}
}

func (d *dir) Close() error { return nil }

// ReadDir follows the fs.ReadDirFile contract: n <= 0 returns everything
// left, n > 0 returns at most n entries and io.EOF once exhausted.
func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := d.entries[d.offset:]
	if n > 0 && len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > 0 && n < len(remaining) {
		remaining = remaining[:n]
	}

	out := make([]fs.DirEntry, 0, len(remaining))
	for _, e := range remaining {
		out = append(out, &dirEntry{snap: d.snap, entry: e})
	}
	d.offset += len(remaining)
	return out, nil
}

// dirEntry loads blob sizes only when Info is called.
type dirEntry struct {
	snap  *Snapshot
	entry TreeEntry
}

func (e *dirEntry) Name() string               { return e.entry.Name }
func (e *dirEntry) IsDir() bool                { return e.entry.Mode.IsTree() }
func (e *dirEntry) Type() fs.FileMode          { return modeOf(e.entry.Mode).Type() }
func (e *dirEntry) Info() (fs.FileInfo, error) { return e.snap.stat(e.entry) }

// fileInfo implements fs.FileInfo for tree entries. Objects carry no
// timestamps, so ModTime is always the zero time.
type fileInfo struct {
	entry TreeEntry
	size  int64
}

var _ fs.FileInfo = (*fileInfo)(nil)

func (i *fileInfo) Name() string       { return i.entry.Name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) Mode() fs.FileMode  { return modeOf(i.entry.Mode) }
func (i *fileInfo) ModTime() time.Time { return time.Time{} }
func (i *fileInfo) IsDir() bool        { return i.entry.Mode.IsTree() }

// Sys returns the object id of the entry.
func (i *fileInfo) Sys() any { return i.entry.ID }

func modeOf(m Mode) fs.FileMode {
	switch {
	case m.IsTree():
		return fs.ModeDir | 0o755
	case m.IsSymlink():
		return fs.ModeSymlink | 0o777
	case m.IsGitlink():
		return fs.ModeIrregular
	}
	return m.Perm()
}
