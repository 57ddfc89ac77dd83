package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <paths...>",
		Short: "Stage files or directories for the next commit",
		Long: `Stage files or directories for the next commit.

A directory is added recursively and entries for files deleted under it are
dropped. Adding a deleted file unstages it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			paths, err := absPaths(g, args)
			if err != nil {
				return err
			}
			return r.Add(paths...)
		},
	}
}

func absPaths(g *globalOptions, args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		p, err := g.absPath(a)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
