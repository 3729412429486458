package refs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
)

// PackedRef is one row of the packed-refs table: a full reference name,
// its target object id and, for annotated tags, the precomputed fully
// peeled id (zero when no annotation is present).
type PackedRef struct {
	Name   FullName
	Target plumbing.Hash
	Peeled plumbing.Hash
}

// Buffer is the packed-refs table, parsed once and sorted by name. It
// is read-only after parsing and never mutated.
type Buffer struct {
	refs []PackedRef
}

// Packed opens and parses the packed-refs file of the store. An absent
// file is not an error and yields a nil buffer; anything else that goes
// wrong is reported as an *OpenError.
func (s *Store) Packed() (*Buffer, error) {
	f, err := s.fs.Open(s.fs.Join(s.base, "packed-refs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &OpenError{Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	b, err := parsePacked(data)
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	return b, nil
}

func parsePacked(data []byte) (*Buffer, error) {
	b := &Buffer{}
	for lineno := 1; len(data) > 0; lineno++ {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		line = bytes.TrimRight(line, " \r")
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if line[0] == '^' {
			if len(b.refs) == 0 {
				return nil, fmt.Errorf("line %d: peeled annotation without a preceding reference", lineno)
			}
			id, err := parseHash(string(line[1:]))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			b.refs[len(b.refs)-1].Peeled = id
			continue
		}
		sep := bytes.IndexByte(line, ' ')
		if sep < 0 {
			return nil, fmt.Errorf("line %d: expected '<hex> <name>'", lineno)
		}
		id, err := parseHash(string(line[:sep]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		name := string(line[sep+1:])
		if err := ValidatePartialName(name); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		b.refs = append(b.refs, PackedRef{Name: FullName(name), Target: id})
	}
	// Lookup must not depend on the order the file happened to be
	// written in.
	sort.Slice(b.refs, func(i, j int) bool { return b.refs[i].Name < b.refs[j].Name })
	return b, nil
}

// Find returns the row for the given full name, or nil if the table
// has none.
func (b *Buffer) Find(name FullName) *PackedRef {
	i := sort.Search(len(b.refs), func(i int) bool { return b.refs[i].Name >= name })
	if i < len(b.refs) && b.refs[i].Name == name {
		return &b.refs[i]
	}
	return nil
}

// FindPartial looks the name up under the usual namespace expansions,
// in git's order.
func (b *Buffer) FindPartial(name string) *PackedRef {
	for _, candidate := range expandPartialName(name) {
		if row := b.Find(FullName(candidate)); row != nil {
			return row
		}
	}
	return nil
}

// Len returns the number of rows.
func (b *Buffer) Len() int { return len(b.refs) }

// Refs returns the rows in name order. The slice is shared and must be
// treated as read-only.
func (b *Buffer) Refs() []PackedRef { return b.refs }
