package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

func (a *app) newWriteTreeCmd() *cobra.Command {
	var (
		exclude []string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "write-tree [dir]",
		Short: "Snapshot a directory into tree and blob objects",
		Long:  "Store every regular file under dir as a blob and every directory as a tree, then print the root tree id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			repo, err := a.openRepo(gitcas.WithExclude(exclude...))
			if err != nil {
				return err
			}

			build := repo.BuildTree
			if dryRun {
				build = repo.HashTree
			}
			id, err := build(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "entry names or globs to skip (repeatable)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "compute the tree id without storing objects")
	return cmd
}
