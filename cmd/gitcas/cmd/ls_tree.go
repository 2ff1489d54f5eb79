package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

func (a *app) newLsTreeCmd() *cobra.Command {
	var nameOnly, recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] [-r] <tree-id>",
		Short: "List the entries of a tree",
		Long:  "List the entries of a tree object in stored order, optionally descending into subtrees.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			id, err := gitcas.ParseID(args[0])
			if err != nil {
				return err
			}
			l := &lister{repo: repo, out: cmd.OutOrStdout(), nameOnly: nameOnly, recursive: recursive}
			return l.list(cmd.Context(), id, "")
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print entry names only")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	return cmd
}

type lister struct {
	repo      *gitcas.Repository
	out       io.Writer
	nameOnly  bool
	recursive bool
}

func (l *lister) list(ctx context.Context, id gitcas.ID, prefix string) error {
	entries, err := l.repo.ReadTree(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if l.recursive && e.Mode.IsTree() {
			if err := l.list(ctx, e.ID, prefix+e.Name+"/"); err != nil {
				return err
			}
			continue
		}
		if l.nameOnly {
			fmt.Fprintln(l.out, prefix+e.Name)
			continue
		}
		printEntries(l.out, []gitcas.TreeEntry{e}, prefix)
	}
	return nil
}
