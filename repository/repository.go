// Package repository ties the reference store and the object database
// together and hands out cloneable handles, each with its own private
// cache.
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/5225225/gitoxide/odb"
	"github.com/5225225/gitoxide/refs"
	"github.com/5225225/gitoxide/worktree"
)

// Kind tells a bare repository apart from one with a working tree.
type Kind int

const (
	KindBare Kind = iota
	KindWorkingTree
)

func (k Kind) IsBare() bool { return k == KindBare }

// Repository is the immutable, long-lived hub shared by all handles:
// the reference store, the object database and the optional working
// tree. It holds no per-handle state.
type Repository struct {
	GitDir   string
	Refs     *refs.Store
	Objects  odb.Database
	WorkTree string
}

// Open opens the repository whose git directory is gitDir.
func Open(gitDir string) (*Repository, error) {
	if _, err := os.Stat(filepath.Join(gitDir, "HEAD")); err != nil {
		return nil, fmt.Errorf("%q is not a git directory: %w", gitDir, err)
	}
	workTree := ""
	if filepath.Base(gitDir) == ".git" {
		workTree = filepath.Dir(gitDir)
	}
	return &Repository{
		GitDir:   gitDir,
		Refs:     refs.NewStore(osfs.New(gitDir), "."),
		Objects:  odb.NewFilesystem(gitDir),
		WorkTree: workTree,
	}, nil
}

// FSCapabilities probes the filesystem the git directory lives on.
func (r *Repository) FSCapabilities() worktree.Capabilities {
	return worktree.Probe(r.GitDir)
}

// Discover opens the repository found by DiscoverGitDir.
func Discover(directory string) (*Repository, error) {
	gitDir, err := DiscoverGitDir(directory)
	if err != nil {
		return nil, err
	}
	return Open(gitDir)
}

// DiscoverGitDir walks upward from directory until it finds a ".git"
// directory or a bare repository layout, and returns the git directory
// path.
func DiscoverGitDir(directory string) (string, error) {
	dir, err := filepath.Abs(directory)
	if err != nil {
		return "", err
	}
	for {
		gitDir := filepath.Join(dir, ".git")
		if fi, err := os.Stat(gitDir); err == nil && fi.IsDir() {
			return gitDir, nil
		}
		if looksBare(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no git repository found in %q or any parent", directory)
		}
		dir = parent
	}
}

func looksBare(dir string) bool {
	for _, name := range []string{"HEAD", "objects", "refs"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func (r *Repository) Kind() Kind {
	if r.WorkTree == "" {
		return KindBare
	}
	return KindWorkingTree
}

// Close releases the object database.
func (r *Repository) Close() error {
	return r.Objects.Close()
}
