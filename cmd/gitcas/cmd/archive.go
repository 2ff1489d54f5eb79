package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

func (a *app) newArchiveCmd() *cobra.Command {
	var (
		output string
		prefix string
		level  int
	)

	cmd := &cobra.Command{
		Use:   "archive <tree-id>",
		Short: "Export a tree as a zstd-compressed tarball",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			id, err := gitcas.ParseID(args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			if err := repo.Archive(cmd.Context(), id, w, gitcas.ArchiveOptions{Prefix: prefix, Level: level}); err != nil {
				return fmt.Errorf("archive %s: %w", id, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of standard output")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prepend prefix to every entry name")
	cmd.Flags().IntVar(&level, "level", 2, "zstd level (1 fastest, 2 default, 3 better)")
	return cmd
}
