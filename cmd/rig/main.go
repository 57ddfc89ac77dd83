package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/logging"
	"github.com/odvcencio/rig/pkg/repo"
)

const version = "0.1.0-dev"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	dir      string
	logLevel string
	logger   *zap.Logger
}

// workDir is the directory commands run in: -C if given, else the process
// working directory.
func (g *globalOptions) workDir() (string, error) {
	dir := g.dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}

// absPath resolves a command-line path against the working directory.
func (g *globalOptions) absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	wd, err := g.workDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func (g *globalOptions) openRepo() (*repo.Repo, error) {
	wd, err := g.workDir()
	if err != nil {
		return nil, err
	}
	return repo.Open(wd, repo.WithLogger(g.logger))
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "rig",
		Short:         "A minimal content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := g.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("RIG_LOG_LEVEL"); env != "" {
					level = env
				}
			}
			logger, err := logging.New(level)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = g.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&g.dir, "directory", "C", "", "run as if rig was started in this directory")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error); env RIG_LOG_LEVEL")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newAddCmd(g))
	root.AddCommand(newRmCmd(g))
	root.AddCommand(newCommitCmd(g))
	root.AddCommand(newLogCmd(g))
	root.AddCommand(newStatusCmd(g))
	root.AddCommand(newBranchCmd(g))
	root.AddCommand(newSwitchCmd(g))
	root.AddCommand(newDiffCmd(g))
	root.AddCommand(newShowCmd(g))
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newReflogCmd(g))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rig %s\n", version)
		},
	}
}
