package refs

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
)

type walkMode int

const (
	// walkPaths yields paths only; reading the file later does not need
	// the name.
	walkPaths walkMode = iota
	// walkPathsAndNames additionally materializes the validated
	// reference name for each path.
	walkPathsAndNames
)

type walkFrame struct {
	dir     string
	entries []os.FileInfo
	next    int
}

// sortedLoosePaths walks all candidate loose reference paths beneath a
// root, depth first with the entries of each directory sorted by name,
// so the sequence of yielded relative paths is deterministic no matter
// how the underlying filesystem enumerates entries.
//
// Only regular files are yielded; directories are descended into,
// symlinks and other non-regular entries are skipped. Paths whose name
// relative to base is not a valid partial reference name are skipped
// silently. The walk is lazy, finite and cannot be restarted.
type sortedLoosePaths struct {
	fs      billy.Filesystem
	root    string
	base    string
	mode    walkMode
	stack   []walkFrame
	started bool
}

func newSortedLoosePaths(fs billy.Filesystem, root, base string, mode walkMode) *sortedLoosePaths {
	return &sortedLoosePaths{fs: fs, root: root, base: base, mode: mode}
}

// next returns the next valid loose reference path, with its name if
// the mode asks for it. The sequence ends with io.EOF. Directory read
// failures are returned as *TraversalError for that position and do not
// end the sequence.
func (w *sortedLoosePaths) next() (string, FullName, error) {
	if !w.started {
		w.started = true
		entries, err := w.fs.ReadDir(w.root)
		if err != nil {
			if os.IsNotExist(err) {
				return "", "", io.EOF
			}
			return "", "", &TraversalError{Err: err}
		}
		w.push(w.root, entries)
	}
	for len(w.stack) > 0 {
		frame := &w.stack[len(w.stack)-1]
		if frame.next >= len(frame.entries) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		fi := frame.entries[frame.next]
		frame.next++

		full := w.fs.Join(frame.dir, fi.Name())
		if fi.IsDir() {
			entries, err := w.fs.ReadDir(full)
			if err != nil {
				return "", "", &TraversalError{Err: err}
			}
			w.push(full, entries)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		rel := relativeTo(w.base, full)
		if ValidatePartialName(rel) != nil {
			continue
		}
		if w.mode == walkPathsAndNames {
			return full, FullName(rel), nil
		}
		return full, "", nil
	}
	return "", "", io.EOF
}

func (w *sortedLoosePaths) push(dir string, entries []os.FileInfo) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	w.stack = append(w.stack, walkFrame{dir: dir, entries: entries})
}

// relativeTo makes full relative to base, slash-separated.
func relativeTo(base, full string) string {
	if base == "" || base == "." {
		return filepath.ToSlash(full)
	}
	rel, err := filepath.Rel(base, full)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(rel)
}
