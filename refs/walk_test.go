package refs

import (
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainWalk(t *testing.T, w *sortedLoosePaths) (paths []string, names []FullName) {
	t.Helper()
	for {
		path, name, err := w.next()
		if err == io.EOF {
			return paths, names
		}
		require.NoError(t, err)
		paths = append(paths, path)
		names = append(names, name)
	}
}

func TestWalkPathsOnly(t *testing.T) {
	fs := memfs.New()
	writeRef(t, fs, "refs/heads/main", hexA+"\n")
	writeRef(t, fs, "refs/tags/v1", hexA+"\n")

	w := newSortedLoosePaths(fs, "refs", ".", walkPaths)
	paths, names := drainWalk(t, w)
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, paths)
	assert.Equal(t, []FullName{"", ""}, names, "paths-only mode does not materialize names")
}

func TestWalkPathsAndNames(t *testing.T) {
	fs := memfs.New()
	writeRef(t, fs, "refs/heads/main", hexA+"\n")
	writeRef(t, fs, "refs/tags/v1", hexA+"\n")

	w := newSortedLoosePaths(fs, "refs", ".", walkPathsAndNames)
	paths, names := drainWalk(t, w)
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, paths)
	assert.Equal(t, []FullName{"refs/heads/main", "refs/tags/v1"}, names)
}

func TestWalkMissingRootIsEmpty(t *testing.T) {
	w := newSortedLoosePaths(memfs.New(), "refs", ".", walkPaths)
	_, _, err := w.next()
	assert.Equal(t, io.EOF, err)
}

func TestWalkIsNotRestartable(t *testing.T) {
	fs := memfs.New()
	writeRef(t, fs, "refs/heads/main", hexA+"\n")

	w := newSortedLoosePaths(fs, "refs", ".", walkPaths)
	paths, _ := drainWalk(t, w)
	require.Len(t, paths, 1)

	_, _, err := w.next()
	assert.Equal(t, io.EOF, err)
}
