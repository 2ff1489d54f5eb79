package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aweris/gitcas/internal/repoconfig"
)

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <section.key> [value]",
		Short: "Get or set a repository config value",
		Long:  "Read or write a key in the repository's git-style config file, for example core.compression or snapshot.exclude.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(a.gitDir(), "config")
			if len(args) == 2 {
				return repoconfig.Set(path, args[0], args[1])
			}
			val, err := repoconfig.Get(path, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}
}
