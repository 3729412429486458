package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/5225225/gitoxide/repository"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the reference tree and print the listing on every change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := gitDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir, err = repository.DiscoverGitDir(wd)
			if err != nil {
				return err
			}
		}
		repo, err := repository.Open(dir)
		if err != nil {
			return err
		}
		defer repo.Close()

		caps := repo.FSCapabilities()
		slog.Debug("filesystem capabilities",
			"ignore_case", caps.IgnoreCase,
			"symlink", caps.Symlink,
			"precompose_unicode", caps.PrecomposeUnicode)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		// The git dir itself covers packed-refs updates; the refs tree
		// is added recursively.
		if err := watcher.Add(dir); err != nil {
			return err
		}
		if err := addRecursive(watcher, filepath.Join(dir, "refs")); err != nil {
			return err
		}

		if err := relist(repo); err != nil {
			return err
		}

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

		// Bursts of events (a ref update touches lock and final file)
		// collapse into one re-listing.
		var pending <-chan time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				slog.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
				if event.Op&fsnotify.Create != 0 {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
						_ = addRecursive(watcher, event.Name)
					}
				}
				pending = time.After(50 * time.Millisecond)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				slog.Warn("watcher error", "error", err)
			case <-pending:
				pending = nil
				if err := relist(repo); err != nil {
					slog.Warn("listing failed", "error", err)
				}
			case <-sigc:
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if fi.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func relist(repo *repository.Repository) error {
	entries, err := collectRefs(repo, "", "")
	if err != nil {
		return err
	}
	fmt.Printf("-- %d references --\n", len(entries))
	return printRefs(os.Stdout, entries, "text")
}
