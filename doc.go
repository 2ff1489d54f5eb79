// Package gitcas provides a git-compatible content-addressable object store
// and directory snapshot builder.
//
// Objects are framed as "<kind> <size>\x00<payload>", identified by the
// SHA-1 of that frame, and stored zlib-compressed at objects/<id[:2]>/<id[2:]>,
// byte-for-byte the loose object format git uses.
//
// Basic usage:
//
//	repo, _ := gitcas.Init(".git")
//
//	// Store and read back a blob
//	id, _ := repo.AddObject(ctx, gitcas.KindBlob, []byte("hello\n"))
//	kind, data, _ := repo.ReadObject(ctx, id)
//
//	// Snapshot a directory into tree objects
//	root, _ := repo.BuildTree(ctx, ".")
//	entries, _ := repo.ReadTree(ctx, root)
//
//	// Browse a stored tree as an fs.FS
//	snap, _ := repo.Snapshot(ctx, root)
//	readme, _ := fs.ReadFile(snap, "README.md")
//
//	// Export it
//	repo.Archive(ctx, root, w, gitcas.ArchiveOptions{Prefix: "project/"})
//
// Lookups are by full 40-character id only; abbreviated ids are rejected
// with ErrInvalidID.
//
// For tests, gitcas.WithStore(gitcas.NewMemoryStore()) keeps every object in
// memory.
package gitcas
