package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/object"
)

func newLogCmd(g *globalOptions) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			entries, err := r.Log(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}

			branchName, _ := r.CurrentBranch()
			headHash := entries[0].Hash

			for _, e := range entries {
				h, c := e.Hash, e.Commit
				decoration := buildDecoration(h, headHash, branchName)

				if oneline {
					subject, _, _ := strings.Cut(c.Message, "\n")
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", hashColor.Sprint(h.Short()), decoration, subject)
					} else {
						fmt.Fprintf(out, "%s %s\n", hashColor.Sprint(h.Short()), subject)
					}
					continue
				}

				if decoration != "" {
					fmt.Fprintf(out, "%s %s\n", hashColor.Sprintf("commit %s", h), decoration)
				} else {
					fmt.Fprintln(out, hashColor.Sprintf("commit %s", h))
				}
				fmt.Fprintf(out, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
				fmt.Fprintf(out, "Date:   %s\n", formatSignatureDate(c.Author))
				fmt.Fprintln(out)
				for _, line := range strings.Split(c.Message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 = all)")
	return cmd
}

// buildDecoration returns a string like "(HEAD -> master)" if the commit is
// the current HEAD, or "" otherwise.
func buildDecoration(commitHash, headHash object.Hash, branchName string) string {
	if commitHash != headHash {
		return ""
	}
	return "(HEAD -> " + branchColor.Sprint(branchName) + ")"
}
