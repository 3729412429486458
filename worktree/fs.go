// Package worktree collects knowledge about the working tree that most
// interactions with it need, starting with the capabilities of the
// filesystem it lives on.
package worktree

import (
	"os"
	"path/filepath"
	"runtime"
)

// Capabilities describes what the filesystem holding the repository can
// represent.
type Capabilities struct {
	// PrecomposeUnicode is set when the filesystem stores paths as
	// decomposed unicode, so names must be precomposed before they are
	// compared or stored.
	PrecomposeUnicode bool
	// IgnoreCase is set when the filesystem folds case, making "A" the
	// same file as "a".
	IgnoreCase bool
	// FileMode is set when the executable bit is honored as part of a
	// file's mode.
	FileMode bool
	// Symlink is set when symbolic links can be created. Without it,
	// links are checked out as files containing the link text.
	Symlink bool
}

// Default returns the assumed capabilities for the current platform.
func Default() Capabilities {
	switch runtime.GOOS {
	case "windows":
		return Capabilities{IgnoreCase: true}
	case "darwin":
		return Capabilities{PrecomposeUnicode: true, IgnoreCase: true, FileMode: true, Symlink: true}
	default:
		return Capabilities{FileMode: true, Symlink: true}
	}
}

// Probe determines the capabilities by performing small experiments in
// gitDir, which should sit on the same filesystem as the repository and
// be populated with the typical files like "config". Every failed probe
// falls back to the platform default.
func Probe(gitDir string) Capabilities {
	caps := Default()
	if v, err := probeIgnoreCase(gitDir); err == nil {
		caps.IgnoreCase = v
	}
	if v, err := probeSymlink(gitDir); err == nil {
		caps.Symlink = v
	}
	if v, err := probePrecomposeUnicode(gitDir); err == nil {
		caps.PrecomposeUnicode = v
	}
	return caps
}

func probeIgnoreCase(gitDir string) (bool, error) {
	_, err := os.Stat(filepath.Join(gitDir, "cOnFiG"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func probePrecomposeUnicode(root string) (bool, error) {
	precomposed := filepath.Join(root, "ä")
	decomposed := filepath.Join(root, "ä")

	f, err := os.OpenFile(precomposed, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	f.Close()
	defer os.Remove(precomposed)

	_, err = os.Lstat(decomposed)
	return err == nil, nil
}

func probeSymlink(root string) (bool, error) {
	src := filepath.Join(root, "__link_src_file")
	link := filepath.Join(root, "__file_link")

	f, err := os.OpenFile(src, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	f.Close()
	defer os.Remove(src)

	if err := os.Symlink(src, link); err != nil {
		return false, nil
	}
	defer os.Remove(link)

	fi, err := os.Lstat(link)
	if err != nil {
		return false, err
	}
	return fi.Mode()&os.ModeSymlink != 0, nil
}
