package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReflogCmd(g *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reflog [branch]",
		Short: "Show where HEAD or a branch has pointed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			name := "HEAD"
			if len(args) == 1 {
				name = args[0]
			}
			entries, err := r.ReadReflog(name, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, e := range entries {
				when := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(w, "%s %s@{%d} %s %s\n",
					hashColor.Sprint(e.NewHash.Short()), name, i, when, e.Reason)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "max-count", "n", 50, "show at most this many entries (0 for all)")
	return cmd
}
