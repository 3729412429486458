package repository

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/5225225/gitoxide/refs"
)

type backingKind int

const (
	// backingLoose holds the live decoded loose reference, which is
	// mutated in place during peeling.
	backingLoose backingKind = iota
	// backingPacked is an immutable snapshot of one packed-refs row.
	backingPacked
)

// Ref is a reference resolved through one handle. It is either backed
// by a loose file or by a row of the packed-refs table; both backings
// answer the same name/target/peel surface.
type Ref struct {
	access Access
	kind   backingKind

	loose *refs.Reference // backingLoose

	name   refs.FullName // backingPacked
	target plumbing.Hash
	peeled *plumbing.Hash
}

// PeelError is the single error surface of peeling, regardless of
// whether the reference is loose or packed backed.
type PeelError struct {
	Name refs.FullName
	Err  error
}

func (e *PeelError) Error() string {
	return fmt.Sprintf("could not peel reference %q to an object: %v", e.Name, e.Err)
}

func (e *PeelError) Unwrap() error { return e.Err }

func newRefFromLoose(a Access, r *refs.Reference) *Ref {
	return &Ref{access: a, kind: backingLoose, loose: r}
}

func newRefFromPacked(a Access, row *refs.PackedRef) *Ref {
	ref := &Ref{access: a, kind: backingPacked, name: row.Name, target: row.Target}
	if row.Peeled != plumbing.ZeroHash {
		peeled := row.Peeled
		ref.peeled = &peeled
	}
	return ref
}

// Name returns the reference name without copying.
func (r *Ref) Name() refs.FullName {
	if r.kind == backingPacked {
		return r.name
	}
	return r.loose.Name
}

// Target returns the current target: for a loose backing the live
// decoded target, for a packed backing the (peeled or direct) object
// id.
func (r *Ref) Target() refs.Target {
	if r.kind == backingPacked {
		return refs.ObjectTarget(r.target)
	}
	return r.loose.Target
}

// PeelToObjectInPlace resolves the reference to the final object id and
// replaces internal state so the result is served from memory on later
// calls.
//
// A packed backing with a precomputed peeled id adopts it without any
// object-database lookup; without one, its target already is the final
// id. A loose backing demand-loads the packed-refs buffer through the
// handle cache and follows indirections against the store and the
// object database.
func (r *Ref) PeelToObjectInPlace() (*Object, error) {
	if r.kind == backingPacked {
		if r.peeled != nil {
			r.target = *r.peeled
			r.peeled = nil
		}
		return &Object{id: r.target, access: r.access}, nil
	}

	repo := r.access.Repo()
	cache, release := r.access.CacheMut()
	defer release()

	packed, err := cache.PackedRefs(repo.Refs)
	if err != nil {
		return nil, &PeelError{Name: r.loose.Name, Err: err}
	}
	find := func(id plumbing.Hash, buf []byte) (plumbing.ObjectType, []byte, bool, error) {
		obj, err := repo.Objects.Find(id, buf, cache.objects)
		if err != nil || obj == nil {
			return 0, nil, false, err
		}
		cache.buf = obj.Data
		return obj.Kind, obj.Data, true, nil
	}
	id, err := r.loose.PeelToID(repo.Refs, packed, find, cache.buf)
	if err != nil {
		return nil, &PeelError{Name: r.loose.Name, Err: err}
	}
	return &Object{id: id, access: r.access}, nil
}

// Object is a content-addressed object reached through one handle.
// Identity is its id: two objects are equal exactly when their ids
// are, independent of handle or backing.
type Object struct {
	id     plumbing.Hash
	access Access
}

func (o *Object) ID() plumbing.Hash { return o.id }

func (o *Object) Equal(other *Object) bool {
	return other != nil && o.id == other.id
}

func (o *Object) String() string { return o.id.String() }

// FindReference looks a reference up by partial name, loose files
// first, then the packed-refs table through the handle cache. It
// returns nil when no reference matches.
func FindReference(a Access, name string) (*Ref, error) {
	repo := a.Repo()
	loose, err := repo.Refs.FindLoose(name)
	if err != nil {
		return nil, err
	}
	if loose != nil {
		return newRefFromLoose(a, loose), nil
	}

	cache, release := a.CacheMut()
	packed, err := cache.PackedRefs(repo.Refs)
	release()
	if err != nil {
		return nil, err
	}
	if packed == nil {
		return nil, nil
	}
	row := packed.FindPartial(name)
	if row == nil {
		return nil, nil
	}
	return newRefFromPacked(a, row), nil
}

// FindReference is shorthand for the package-level FindReference on
// this handle.
func (h *Shared) FindReference(name string) (*Ref, error) { return FindReference(h, name) }

// FindReference is shorthand for the package-level FindReference on
// this handle.
func (h *SharedArc) FindReference(name string) (*Ref, error) { return FindReference(h, name) }
