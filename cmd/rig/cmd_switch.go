package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/repo"
)

func newSwitchCmd(g *globalOptions) *cobra.Command {
	var create bool
	var check bool

	cmd := &cobra.Command{
		Use:   "switch <branch>",
		Short: "Switch branches, replacing the working tree",
		Long: `Switch to a branch and rebuild the working tree from its last commit.

Every file outside .rig/ is deleted first, including uncommitted and
untracked work. Use --check to refuse when the working tree is not clean.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			mode := repo.SwitchForce
			if check {
				mode = repo.SwitchRefuseDirty
			}

			name := args[0]
			if create {
				err = r.SwitchCreate(name, mode)
			} else {
				err = r.Switch(name, mode)
			}
			if err != nil {
				return err
			}

			if create {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to a new branch '%s'\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to branch '%s'\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "c", false, "create the branch at the current commit first")
	cmd.Flags().BoolVar(&check, "check", false, "refuse to switch when there are uncommitted or untracked changes")
	return cmd
}
