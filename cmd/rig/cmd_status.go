package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/repo"
	"github.com/odvcencio/rig/pkg/watch"
)

func newStatusCmd(g *globalOptions) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printStatus(out, r); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}
			return watchStatus(cmd.Context(), out, r)
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "keep running and reprint status when files change")
	return cmd
}

func printStatus(out io.Writer, r *repo.Repo) error {
	st, err := r.Status()
	if err != nil {
		return err
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	_, hasCommits, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if hasCommits {
		fmt.Fprintf(out, "on %s\n", branchColor.Sprint(branch))
	} else {
		fmt.Fprintf(out, "on %s (no commits yet)\n", branchColor.Sprint(branch))
	}

	printEntries(out, "staged:", st.Staged)
	printEntries(out, "unstaged:", st.Unstaged)
	if len(st.Untracked) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "untracked:")
		for _, p := range st.Untracked {
			fmt.Fprintf(out, "  %s\n", removedColor.Sprint(p))
		}
	}
	if st.IsClean() {
		fmt.Fprintln(out, "nothing to commit, working tree clean")
	}
	return nil
}

func printEntries(out io.Writer, title string, entries []repo.StatusEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, e := range entries {
		marker, c := statusMarker(e.Status)
		fmt.Fprintf(out, "  %s %s\n", c.Sprint(marker), e.Path)
	}
}

func statusMarker(s repo.FileStatus) (string, *color.Color) {
	switch s {
	case repo.StatusAdded:
		return "+", addedColor
	case repo.StatusDeleted:
		return "-", removedColor
	default:
		return "~", modifiedColor
	}
}

// watchStatus reprints the status after every burst of file changes until
// interrupted.
func watchStatus(ctx context.Context, out io.Writer, r *repo.Repo) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(r.RootDir, []string{repo.MetaDirName}, watch.DefaultDebounce, r.Logger().Named("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for range w.C {
		fmt.Fprintln(out)
		if err := printStatus(out, r); err != nil {
			return err
		}
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
