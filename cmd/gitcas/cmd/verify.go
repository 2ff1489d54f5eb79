package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every stored object against its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			report, err := repo.Verify(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range report.Problems {
				fmt.Fprintf(out, "%s: %v\n", p.ID, p.Err)
			}
			fmt.Fprintf(out, "checked %d objects, %d problems\n", report.Checked, len(report.Problems))
			if !report.OK() {
				return fmt.Errorf("verify: %d corrupt objects", len(report.Problems))
			}
			return nil
		},
	}
}
