package refs

import (
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Store anchors the on-disk reference layout of one repository: loose
// reference files beneath "<base>/refs" and the consolidated
// "<base>/packed-refs" table. It holds no mutable state of its own and
// is safe for shared, read-only use.
type Store struct {
	fs   billy.Filesystem
	base string
}

// NewStore returns a store for the repository whose git directory is
// base within fs. Use "." when fs is already rooted at the git
// directory.
func NewStore(fs billy.Filesystem, base string) *Store {
	return &Store{fs: fs, base: base}
}

// Base returns the git directory this store was anchored at.
func (s *Store) Base() string { return s.base }

func (s *Store) refsDir() string { return s.fs.Join(s.base, "refs") }

// RefsDir returns the path of the loose reference tree.
func (s *Store) RefsDir() string { return s.refsDir() }

// LooseIter returns an iterator over all loose references, notably not
// including any packed ones, in sorted order. It fails with
// ErrRefsNotFound if the refs directory does not exist.
//
// Reference files that do not constitute valid names are silently
// ignored.
func (s *Store) LooseIter() (*LooseIter, error) {
	refs := s.refsDir()
	fi, err := s.fs.Stat(refs)
	if err != nil || !fi.IsDir() {
		return nil, ErrRefsNotFound
	}
	return s.looseIterAt(refs), nil
}

// LooseIterPrefixed returns an iterator over all loose references whose
// names start with the given prefix, like "refs/heads". The prefix must
// be a relative path without "." or ".." components, otherwise an
// *InvalidPrefixError is returned before any I/O. A prefix directory
// that does not exist yields an empty sequence.
func (s *Store) LooseIterPrefixed(prefix string) (*LooseIter, error) {
	p, err := s.validatePrefix(prefix)
	if err != nil {
		return nil, err
	}
	return s.looseIterAt(s.fs.Join(s.base, p)), nil
}

func (s *Store) looseIterAt(root string) *LooseIter {
	return &LooseIter{
		store: s,
		paths: newSortedLoosePaths(s.fs, root, s.base, walkPaths),
	}
}

func (s *Store) validatePrefix(prefix string) (string, error) {
	if strings.HasPrefix(prefix, "/") {
		return "", &InvalidPrefixError{Prefix: prefix, Reason: "must be a relative path, like 'refs/heads'"}
	}
	for _, comp := range strings.Split(prefix, "/") {
		if comp == "." || comp == ".." {
			return "", &InvalidPrefixError{Prefix: prefix, Reason: "relative path components are not allowed"}
		}
	}
	return prefix, nil
}

// FindLoose looks up a single loose reference by partial name, trying
// the usual namespace expansions in git's order. It returns nil without
// an error when no loose file matches.
func (s *Store) FindLoose(name string) (*Reference, error) {
	if err := ValidatePartialName(name); err != nil {
		return nil, err
	}
	for _, candidate := range expandPartialName(name) {
		full := s.fs.Join(s.base, candidate)
		fi, err := s.fs.Stat(full)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		f, err := s.fs.Open(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &ReadError{Path: full, Err: err}
		}
		data, err := readAll(f, nil)
		f.Close()
		if err != nil {
			return nil, &ReadError{Path: full, Err: err}
		}
		ref, err := DecodeReference(data, FullName(candidate))
		if err != nil {
			return nil, &DecodeError{RelativePath: candidate, Err: err}
		}
		return ref, nil
	}
	return nil, nil
}
