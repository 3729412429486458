package refs

import (
	"io"
)

// LooseIter iterates all loose references beneath one root, in sorted
// order. Each item is independently fallible: a *TraversalError,
// *ReadError or *DecodeError reported by Next does not end the
// sequence, so a single bad file cannot hide the remaining references.
// The caller decides whether to skip or abort.
type LooseIter struct {
	store *Store
	paths *sortedLoosePaths
	buf   []byte
}

// Next returns the next loose reference. The end of the sequence is
// signalled with io.EOF.
func (it *LooseIter) Next() (*Reference, error) {
	full, _, err := it.paths.next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}

	f, err := it.store.fs.Open(full)
	if err != nil {
		return nil, &ReadError{Path: full, Err: err}
	}
	it.buf, err = readAll(f, it.buf[:0])
	f.Close()
	if err != nil {
		return nil, &ReadError{Path: full, Err: err}
	}

	rel := relativeTo(it.store.base, full)
	ref, err := DecodeReference(it.buf, FullName(rel))
	if err != nil {
		return nil, &DecodeError{RelativePath: rel, Err: err}
	}
	return ref, nil
}

// ForEach calls fn for every item until the sequence ends or fn returns
// a non-nil error. Item errors are passed to fn with a nil reference.
func (it *LooseIter) ForEach(fn func(*Reference, error) error) error {
	for {
		ref, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err := fn(ref, err); err != nil {
			return err
		}
	}
}

// readAll reads r to completion, appending into buf to reuse its
// capacity across calls.
func readAll(r io.Reader, buf []byte) ([]byte, error) {
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
	}
}
