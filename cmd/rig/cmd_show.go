package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/object"
	"github.com/odvcencio/rig/pkg/repo"
)

func newShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [rev] [path]",
		Short: "Show a commit and its tree, or a file at a commit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			rev := "HEAD"
			if len(args) > 0 {
				rev = args[0]
			}
			h, err := r.ResolveRevision(rev)
			if err != nil {
				return err
			}
			c, err := r.LoadCommit(h)
			if err != nil {
				return err
			}
			tree, err := r.Store.ReadTree(c.TreeHash)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				p := strings.Trim(args[1], "/")
				entry, ok := repo.FindInTree(tree, p)
				if !ok {
					return fmt.Errorf("show: path %q not found in %s", p, h.Short())
				}
				blob, ok := entry.Object.(*object.Blob)
				if !ok {
					return fmt.Errorf("show: %q is not a file", p)
				}
				_, err := out.Write(blob.Data)
				return err
			}

			fmt.Fprintln(out, hashColor.Sprintf("commit %s", h))
			fmt.Fprintf(out, "tree %s\n", c.TreeHash)
			for _, p := range c.Parents {
				fmt.Fprintf(out, "parent %s\n", p)
			}
			fmt.Fprintf(out, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
			fmt.Fprintf(out, "Date:   %s\n", formatSignatureDate(c.Author))
			fmt.Fprintln(out)
			for _, line := range strings.Split(c.Message, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
			fmt.Fprintln(out)
			printTree(out, tree, "")
			return nil
		},
	}
}

func printTree(out io.Writer, tree *object.Tree, prefix string) {
	for _, e := range tree.Entries {
		full := prefix + e.Name
		if sub, ok := e.Object.(*object.Tree); ok && e.IsDir() {
			printTree(out, sub, full+"/")
			continue
		}
		fmt.Fprintf(out, "%s %s %s\n", e.Mode, e.Hash.Short(), full)
	}
}
