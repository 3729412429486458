package repository

import (
	"github.com/go-git/go-git/v5/plumbing/cache"

	"github.com/5225225/gitoxide/odb"
	"github.com/5225225/gitoxide/refs"
)

// Cache is the lazily-populated, handle-private state: the packed-refs
// buffer, the object-lookup cache and a reusable scratch buffer. It is
// created empty with its handle and never shared across handle clones.
type Cache struct {
	packedRefs *refs.Buffer
	objects    cache.Object
	buf        []byte
}

func newCache() Cache {
	return Cache{objects: odb.NewObjectCache()}
}

// PackedRefs returns the packed-refs buffer, opening it through the
// store on first demand. A loaded buffer is reused for the lifetime of
// the cache without further I/O. A failed open leaves the slot empty,
// so a later call may try again; an absent packed-refs file yields nil
// and is re-probed on the next call.
func (c *Cache) PackedRefs(store *refs.Store) (*refs.Buffer, error) {
	if c.packedRefs != nil {
		return c.packedRefs, nil
	}
	b, err := store.Packed()
	if err != nil {
		return nil, err
	}
	c.packedRefs = b
	return b, nil
}

// Invalidate drops the packed-refs buffer so the next access reloads
// it.
func (c *Cache) Invalidate() {
	c.packedRefs = nil
}
