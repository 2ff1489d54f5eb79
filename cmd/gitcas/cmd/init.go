package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

func (a *app) newInitCmd() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty repository",
		Long:  "Create the objects/ and refs/ layout with HEAD and config. Re-running init keeps existing files.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gitDir := a.gitDir()
			if len(args) == 1 && !filepath.IsAbs(gitDir) {
				gitDir = filepath.Join(args[0], gitDir)
			}

			opts := []gitcas.Option{gitcas.WithLogger(a.log)}
			if cmd.Flags().Changed("compression") {
				opts = append(opts, gitcas.WithCompressionLevel(level))
			}

			repo, err := gitcas.Init(gitDir, opts...)
			if err != nil {
				return err
			}
			dir, err := filepath.Abs(repo.Dir())
			if err != nil {
				dir = repo.Dir()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", dir)
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "compression", -1, "zlib level written to core.compression (-1 default, 0-9)")
	return cmd
}
