package gitcas

import (
	"context"
	"io"

	"github.com/aweris/gitcas/internal/archive"
)

// ArchiveOptions configures Archive.
type ArchiveOptions = archive.Options

// Archive writes the tree id to w as a zstd-compressed tar stream.
func (r *Repository) Archive(ctx context.Context, id ID, w io.Writer, opts ArchiveOptions) error {
	snap, err := r.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	if err := archive.Write(ctx, w, snap, opts); err != nil {
		return err
	}
	r.log.Info("archive written", "tree", id)
	return nil
}
