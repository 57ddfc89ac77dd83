package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd(g *globalOptions) *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if deleteBranch != "" {
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			if len(args) == 1 {
				return r.CreateBranch(args[0])
			}

			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			for _, b := range branches {
				if b.Current {
					fmt.Fprintf(out, "* %s\n", branchColor.Sprint(b.Name))
				} else {
					fmt.Fprintf(out, "  %s\n", b.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	return cmd
}
