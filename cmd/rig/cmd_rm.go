package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/repo"
)

func newRmCmd(g *globalOptions) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm <paths...>",
		Short: "Remove files from the index (and the working tree)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			paths, err := absPaths(g, args)
			if err != nil {
				return err
			}
			if !cached {
				for _, p := range paths {
					rel, err := filepath.Rel(r.RootDir, p)
					if err == nil && (rel == "." || rel == repo.MetaDirName || strings.HasPrefix(rel, repo.MetaDirName+string(filepath.Separator))) {
						return fmt.Errorf("rm: refusing to delete %s", p)
					}
				}
			}
			removed, err := r.Remove(paths...)
			if err != nil {
				return err
			}
			if cached {
				return nil
			}
			// Only files that were tracked are deleted; untracked files in a
			// removed directory stay, and so does the directory holding them.
			for _, rel := range removed {
				abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
				if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("rm: %w", err)
				}
				pruneEmptyParents(r.RootDir, filepath.Dir(abs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "only remove from the index, keep the working file")
	return cmd
}

// pruneEmptyParents removes dir and its ancestors below root while they are
// empty.
func pruneEmptyParents(root, dir string) {
	for dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)) {
		if os.Remove(dir) != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
