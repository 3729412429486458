package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/5225225/gitoxide/refs"
	"github.com/5225225/gitoxide/repository"
)

var (
	listPrefix string
	listFormat string
)

type refEntry struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
	Peeled string `json:"peeled,omitempty" yaml:"peeled,omitempty"`
	Source string `json:"source" yaml:"source"`
}

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List loose and packed references",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		defer repo.Close()

		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}
		entries, err := collectRefs(repo, listPrefix, pattern)
		if err != nil {
			return err
		}
		return printRefs(os.Stdout, entries, listFormat)
	},
}

func init() {
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Only iterate loose references beneath this prefix, like 'refs/heads'")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text, json or yaml")
	rootCmd.AddCommand(listCmd)
}

// collectRefs unions loose and packed references, loose files winning
// over packed rows of the same name, optionally filtered by a glob
// pattern on the full name.
func collectRefs(repo *repository.Repository, prefix, pattern string) ([]refEntry, error) {
	var entries []refEntry
	seen := map[string]bool{}

	var (
		iter *refs.LooseIter
		err  error
	)
	if prefix != "" {
		iter, err = repo.Refs.LooseIterPrefixed(prefix)
	} else {
		iter, err = repo.Refs.LooseIter()
	}
	if err != nil {
		// A repository whose references are fully packed has no refs
		// tree to walk.
		if !errors.Is(err, refs.ErrRefsNotFound) {
			return nil, err
		}
		iter = nil
	}
	for iter != nil {
		ref, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable reference", "error", err)
			continue
		}
		seen[string(ref.Name)] = true
		if !matches(pattern, string(ref.Name)) {
			continue
		}
		entries = append(entries, refEntry{
			Name:   string(ref.Name),
			Target: ref.Target.String(),
			Source: "loose",
		})
	}

	packed, err := repo.Refs.Packed()
	if err != nil {
		return nil, err
	}
	if packed != nil {
		for _, row := range packed.Refs() {
			if seen[string(row.Name)] || !matches(pattern, string(row.Name)) {
				continue
			}
			if prefix != "" && !strings.HasPrefix(string(row.Name), prefix) {
				continue
			}
			entry := refEntry{
				Name:   string(row.Name),
				Target: row.Target.String(),
				Source: "packed",
			}
			if !row.Peeled.IsZero() {
				entry.Peeled = row.Peeled.String()
			}
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func matches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func printRefs(w io.Writer, entries []refEntry, format string) error {
	switch format {
	case "text":
		for _, e := range entries {
			fmt.Fprintf(w, "%s %s\n", e.Target, e.Name)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(w).Encode(entries)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
