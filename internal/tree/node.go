package tree

import (
	"github.com/aweris/gitcas/internal/object"
)

// Node is one file or directory of a scanned tree. Scan fills in the
// structure; Write assigns IDs.
type Node struct {
	Name string
	// Path is slash-separated and relative to the scan root ("." for the root).
	Path string
	Mode object.Mode
	Size int64

	// Children is sorted by byte-wise name. Nil for files.
	Children []*Node

	ID object.ID
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Mode.IsTree()
}

// Walk calls fn for n and every descendant in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Entries returns the tree entries of a written directory node.
func (n *Node) Entries() []object.TreeEntry {
	entries := make([]object.TreeEntry, 0, len(n.Children))
	for _, child := range n.Children {
		entries = append(entries, object.TreeEntry{
			Mode: child.Mode,
			Name: child.Name,
			ID:   child.ID,
		})
	}
	return entries
}

// Counts returns the number of file and directory nodes, including n.
func (n *Node) Counts() (files, dirs int) {
	n.Walk(func(c *Node) {
		if c.IsDir() {
			dirs++
		} else {
			files++
		}
	})
	return files, dirs
}
