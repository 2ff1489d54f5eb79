// Package archive writes a filesystem tree as a zstd-compressed tar stream.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/aweris/gitcas/internal/compression"
)

// Options configures Write.
type Options struct {
	// Prefix is prepended to every entry name ("project/" for example).
	Prefix string
	// ModTime is recorded on every entry. Zero means the Unix epoch.
	ModTime time.Time
	// Level is the zstd level: 1 fastest, 2 default, 3 better compression.
	Level int
}

// Write walks fsys from its root and writes every directory and regular
// file to w. Entries appear in fs.WalkDir order, so equal trees produce
// equal archives.
func Write(ctx context.Context, w io.Writer, fsys fs.FS, opts Options) (err error) {
	modTime := opts.ModTime
	if modTime.IsZero() {
		modTime = time.Unix(0, 0)
	}

	zw, err := compression.NewZstdWriter(w, opts.Level)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("archive: %w", cerr)
		}
	}()

	tw := tar.NewWriter(zw)
	err = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if name == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:    opts.Prefix + name,
			Mode:    int64(info.Mode().Perm()),
			ModTime: modTime,
			Format:  tar.FormatPAX,
		}

		switch {
		case d.IsDir():
			hdr.Typeflag = tar.TypeDir
			hdr.Name += "/"
			return tw.WriteHeader(hdr)
		case d.Type().IsRegular():
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return err
			}
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(data))
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			_, err = tw.Write(data)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	return nil
}

// Entry is one member of an archive as returned by List.
type Entry struct {
	Name string
	Mode fs.FileMode
	Size int64
	Dir  bool
}

// List reads an archive produced by Write and returns its members.
func List(r io.Reader) ([]Entry, error) {
	zr, err := compression.NewZstdReader(r)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer zr.Close()

	var entries []Entry
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		entries = append(entries, Entry{
			Name: hdr.Name,
			Mode: fs.FileMode(hdr.Mode).Perm(),
			Size: hdr.Size,
			Dir:  hdr.Typeflag == tar.TypeDir,
		})
	}
}
