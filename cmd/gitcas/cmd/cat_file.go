package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas"
)

// errMissing makes "cat-file -e" exit non-zero without printing anything.
var errMissing = errors.New("object does not exist")

func (a *app) newCatFileCmd() *cobra.Command {
	var pretty, showType, showSize, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s | -e) <id>",
		Short: "Show the content, kind or size of an object",
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

			kind, content, err := repo.ReadObject(cmd.Context(), id)
			if exists {
				if err != nil {
					a.log.Debug("object check failed", "id", id, "error", err)
					return errMissing
				}
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, kind)
			case showSize:
				fmt.Fprintln(out, len(content))
			case kind == gitcas.KindTree:
				entries, err := gitcas.DecodeTree(content)
				if err != nil {
					return err
				}
				printEntries(out, entries, "")
			default:
				_, err = out.Write(content)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object kind")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the content size in bytes")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with zero status if the object is readable")
	cmd.MarkFlagsMutuallyExclusive("pretty", "type", "size", "exists")
	cmd.MarkFlagsOneRequired("pretty", "type", "size", "exists")
	return cmd
}

// printEntries writes entries in "mode kind id\tpath" form.
func printEntries(w io.Writer, entries []gitcas.TreeEntry, prefix string) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\t%s%s\n", e.Mode, e.Mode.Kind(), e.ID, prefix, e.Name)
	}
}
