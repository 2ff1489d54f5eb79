package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

func (a *app) newHashObjectCmd() *cobra.Command {
	var (
		write bool
		kind  string
		stdin bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t kind] (--stdin | <file>)",
		Short: "Compute an object id, optionally storing the object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := gitcas.Kind(kind)

			var content []byte
			var err error
			switch {
			case stdin && len(args) == 0:
				content, err = io.ReadAll(cmd.InOrStdin())
			case !stdin && len(args) == 1:
				content, err = os.ReadFile(args[0])
			default:
				return fmt.Errorf("hash-object: need exactly one of --stdin or <file>")
			}
			if err != nil {
				return err
			}

			if err := gitcas.ValidateObject(k, content); err != nil {
				return err
			}

			id := gitcas.HashObject(k, content)
			if write {
				repo, err := a.openRepo()
				if err != nil {
					return err
				}
				if id, err = repo.AddObject(cmd.Context(), k, content); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the object in the repository")
	cmd.Flags().StringVarP(&kind, "type", "t", string(gitcas.KindBlob), "object kind (blob, tree, commit, tag)")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read content from standard input")
	return cmd
}
