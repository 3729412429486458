package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/5225225/gitoxide/config"
	"github.com/5225225/gitoxide/repository"
)

var (
	gitDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gix-refs",
	Short: "Inspect the references of a git repository",
	Long: `gix-refs reads the loose reference files and the packed-refs table of a
repository, resolves names to object ids and can watch the reference
tree for changes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&gitDir, "git-dir", "", "Path of the git directory (default: discover from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func openRepository() (*repository.Repository, error) {
	if gitDir != "" {
		dir, err := config.ParsePath(gitDir)
		if err != nil {
			return nil, err
		}
		return repository.Open(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return repository.Discover(wd)
}
