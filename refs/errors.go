package refs

import (
	"errors"
	"fmt"
)

// ErrRefsNotFound is returned when loose iteration is requested but the
// refs directory does not exist.
var ErrRefsNotFound = errors.New("refs directory does not exist")

// InvalidPrefixError is returned for iteration prefixes that are
// absolute or contain relative path components. It is raised before any
// I/O happens.
type InvalidPrefixError struct {
	Prefix string
	Reason string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid prefix %q: %s", e.Prefix, e.Reason)
}

// TraversalError is a directory-walk failure. It is fatal for its
// position in the sequence but does not stop subsequent iteration.
type TraversalError struct {
	Err error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("the file system could not be traversed: %v", e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// ReadError is a failure to read a single loose reference file in full.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("the ref file at %q could not be read in full: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError is malformed content in a loose reference file, tagged
// with the path of the file relative to the store base.
type DecodeError struct {
	RelativePath string
	Err          error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("the reference at %q could not be instantiated: %v", e.RelativePath, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// OpenError means the packed-refs file exists but could not be opened
// or parsed.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("the packed-refs file could not be opened: %v", e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// PeelToIDError is a failure to peel a loose reference down to its
// final object id.
type PeelToIDError struct {
	Name FullName
	Err  error
}

func (e *PeelToIDError) Error() string {
	return fmt.Sprintf("could not peel reference %q: %v", e.Name, e.Err)
}

func (e *PeelToIDError) Unwrap() error { return e.Err }
