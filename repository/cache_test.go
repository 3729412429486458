package repository

import (
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5225225/gitoxide/refs"
)

const (
	hexA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hexB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func writeFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
}

func TestCachePackedRefsLoadedOnce(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexA))
	store := refs.NewStore(fs, ".")

	cache := newCache()
	first, err := cache.PackedRefs(store)
	require.NoError(t, err)
	require.NotNil(t, first)

	// External mutation is not observed: the loaded buffer is reused
	// for the lifetime of the cache.
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexB))
	second, err := cache.PackedRefs(store)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, hexA, second.Find("refs/heads/main").Target.String())
}

func TestCacheInvalidateReloads(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexA))
	store := refs.NewStore(fs, ".")

	cache := newCache()
	_, err := cache.PackedRefs(store)
	require.NoError(t, err)

	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexB))
	cache.Invalidate()
	buf, err := cache.PackedRefs(store)
	require.NoError(t, err)
	assert.Equal(t, hexB, buf.Find("refs/heads/main").Target.String())
}

func TestCacheFailedOpenIsRetryable(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "packed-refs", "not a packed-refs file\n")
	store := refs.NewStore(fs, ".")

	cache := newCache()
	_, err := cache.PackedRefs(store)
	var openErr *refs.OpenError
	require.ErrorAs(t, err, &openErr)

	// The failure did not poison the cache: once the file is fixed the
	// next call succeeds.
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexA))
	buf, err := cache.PackedRefs(store)
	require.NoError(t, err)
	require.NotNil(t, buf)
	assert.Equal(t, 1, buf.Len())
}
