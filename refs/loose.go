package refs

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// TargetKind discriminates what a reference points at.
type TargetKind int

const (
	// TargetObject is a direct object id.
	TargetObject TargetKind = iota
	// TargetSymbolic is an indirection to another reference name.
	TargetSymbolic
)

// Target is what a reference points at: a direct object id, or the
// name of another reference.
type Target struct {
	kind TargetKind
	id   plumbing.Hash
	name FullName
}

// ObjectTarget returns a direct target.
func ObjectTarget(id plumbing.Hash) Target {
	return Target{kind: TargetObject, id: id}
}

// SymbolicTarget returns an indirection to name.
func SymbolicTarget(name FullName) Target {
	return Target{kind: TargetSymbolic, name: name}
}

// Kind returns the target discriminant.
func (t Target) Kind() TargetKind { return t.kind }

// ID returns the object id for direct targets, the zero hash otherwise.
func (t Target) ID() plumbing.Hash { return t.id }

// Name returns the target reference name for symbolic targets.
func (t Target) Name() FullName { return t.name }

func (t Target) String() string {
	if t.kind == TargetSymbolic {
		return "ref: " + string(t.name)
	}
	return t.id.String()
}

// Reference is a loose reference as decoded from a single file beneath
// the refs directory. Peeling mutates it in place to memoize the final
// object id.
type Reference struct {
	Name   FullName
	Target Target

	peeled *plumbing.Hash
}

// DecodeReference decodes the content of a loose reference file. The
// candidate name becomes the name of the reference and must already be
// validated.
func DecodeReference(data []byte, name FullName) (*Reference, error) {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimRight(line, " \t\r")

	if rest, ok := bytes.CutPrefix(line, []byte("ref:")); ok {
		target := string(bytes.TrimSpace(rest))
		if err := ValidatePartialName(target); err != nil {
			return nil, fmt.Errorf("invalid symbolic target: %w", err)
		}
		return &Reference{Name: name, Target: SymbolicTarget(FullName(target))}, nil
	}
	id, err := parseHash(string(line))
	if err != nil {
		return nil, err
	}
	return &Reference{Name: name, Target: ObjectTarget(id)}, nil
}

// FindObjectFunc resolves an object id to its kind and raw bytes. The
// returned data may reuse buf. A missing object is reported with found
// set to false, not an error.
type FindObjectFunc func(id plumbing.Hash, buf []byte) (kind plumbing.ObjectType, data []byte, found bool, err error)

// References may chain at most this many symbolic hops, as in git.
const maxSymbolicDepth = 5

// PeelToID resolves the reference through any symbolic indirection and
// any chain of tag objects down to the final object id, then replaces
// the target in place so later calls return the memoized id without
// further lookups. Symbolic hops are resolved against the store first
// and the packed buffer second; packed rows carrying a precomputed
// peeled id finish the walk without consulting find.
//
// On failure the pre-peel state is left intact, so a retried peel is
// safe.
func (r *Reference) PeelToID(store *Store, packed *Buffer, find FindObjectFunc, buf []byte) (plumbing.Hash, error) {
	if r.peeled != nil {
		return *r.peeled, nil
	}

	target := r.Target
	for depth := 0; target.kind == TargetSymbolic; depth++ {
		if depth == maxSymbolicDepth {
			return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: fmt.Errorf("symbolic reference chain longer than %d", maxSymbolicDepth)}
		}
		next, err := store.FindLoose(string(target.name))
		if err != nil {
			return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: err}
		}
		if next != nil {
			target = next.Target
			continue
		}
		if packed != nil {
			if row := packed.Find(target.name); row != nil {
				if row.Peeled != plumbing.ZeroHash {
					r.finishPeel(row.Peeled)
					return row.Peeled, nil
				}
				target = ObjectTarget(row.Target)
				continue
			}
		}
		return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: fmt.Errorf("reference %q does not exist", target.name)}
	}

	id := target.id
	for {
		kind, data, found, err := find(id, buf)
		if err != nil {
			return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: fmt.Errorf("lookup of object %s failed: %w", id, err)}
		}
		if !found {
			return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: fmt.Errorf("object %s does not exist", id)}
		}
		if kind != plumbing.TagObject {
			break
		}
		next, err := tagTarget(data)
		if err != nil {
			return plumbing.ZeroHash, &PeelToIDError{Name: r.Name, Err: fmt.Errorf("tag object %s: %w", id, err)}
		}
		id = next
	}
	r.finishPeel(id)
	return id, nil
}

func (r *Reference) finishPeel(id plumbing.Hash) {
	r.Target = ObjectTarget(id)
	r.peeled = &id
}

// tagTarget extracts the pointed-to object id from a raw tag payload,
// whose first header line is "object <hex>".
func tagTarget(data []byte) (plumbing.Hash, error) {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	rest, ok := bytes.CutPrefix(line, []byte("object "))
	if !ok {
		return plumbing.ZeroHash, fmt.Errorf("payload does not start with an object header")
	}
	return parseHash(string(rest))
}

func parseHash(s string) (plumbing.Hash, error) {
	var h plumbing.Hash
	if len(s) != 2*len(h) {
		return h, fmt.Errorf("%q is not a hex object id", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%q is not a hex object id", s)
	}
	copy(h[:], b)
	return h, nil
}
