package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/diff"
)

func newDiffCmd(g *globalOptions) *cobra.Command {
	var staged bool
	var stat bool
	var contextLines int

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show unstaged changes, or staged changes with --staged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			var diffs []*diff.FileDiff
			if staged {
				diffs, err = r.DiffStaged()
			} else {
				diffs, err = r.DiffUnstaged()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stat {
				fmt.Fprint(out, diff.FormatSummary(diffs))
				return nil
			}
			text, err := diff.FormatUnified(diffs, contextLines)
			if err != nil {
				return err
			}
			writeColoredDiff(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "compare the index with the last commit")
	cmd.Flags().BoolVar(&stat, "stat", false, "list changed files only")
	cmd.Flags().IntVarP(&contextLines, "unified", "U", diff.DefaultContext, "lines of context")
	return cmd
}
