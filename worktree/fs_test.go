package worktree

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeLeavesNoTraces(t *testing.T) {
	gitDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte("[core]\n"), 0o644))

	Probe(gitDir)

	entries, err := os.ReadDir(gitDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config", entries[0].Name())
}

func TestProbeSymlinkOnUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	caps := Probe(t.TempDir())
	assert.True(t, caps.Symlink)
}

func TestProbeIgnoreCase(t *testing.T) {
	gitDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte(""), 0o644))

	got, err := probeIgnoreCase(gitDir)
	require.NoError(t, err)
	assert.Equal(t, Default().IgnoreCase, got)
}

func TestDefaultPerPlatform(t *testing.T) {
	caps := Default()
	switch runtime.GOOS {
	case "windows":
		assert.False(t, caps.Symlink)
		assert.True(t, caps.IgnoreCase)
	case "darwin":
		assert.True(t, caps.Symlink)
		assert.True(t, caps.IgnoreCase)
	default:
		assert.True(t, caps.Symlink)
		assert.False(t, caps.IgnoreCase)
	}
}
