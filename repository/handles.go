package repository

import (
	"sync/atomic"
)

// Access is the capability surface a reference needs to peel: shared
// access to the repository and borrow-checked access to the handle's
// own cache. Cache borrows follow single-writer discipline: at most
// one exclusive borrow may be outstanding, and overlapping a write
// with any other borrow on the same handle is a programming error that
// panics. Handles meant for concurrent use must be cloned first; each
// clone gets its own empty cache.
type Access interface {
	Repo() *Repository
	// Cache returns shared read access to the handle cache together
	// with a release function.
	Cache() (*Cache, func())
	// CacheMut returns exclusive access to the handle cache together
	// with a release function.
	CacheMut() (*Cache, func())
}

// Shared is a handle for a single logical thread of control. Its
// borrow accounting is deliberately unsynchronized: it detects misuse
// within that one thread without paying for atomics.
type Shared struct {
	repo   *Repository
	cache  Cache
	borrow int32
}

// SharedArc is a handle whose borrow accounting is atomic, so misuse
// is detected reliably even when the handle leaks across goroutines.
// Correct concurrent use still means one clone per goroutine.
type SharedArc struct {
	repo   *Repository
	cache  Cache
	borrow atomic.Int32
}

// Shared wraps the repository in a single-thread handle with a fresh
// cache.
func (r *Repository) Shared() *Shared {
	return &Shared{repo: r, cache: newCache()}
}

// SharedArc wraps the repository in a cross-thread handle with a fresh
// cache.
func (r *Repository) SharedArc() *SharedArc {
	return &SharedArc{repo: r, cache: newCache()}
}

// Clone shares the repository and constructs a brand-new, empty cache.
func (h *Shared) Clone() *Shared {
	return h.repo.Shared()
}

func (h *Shared) Repo() *Repository { return h.repo }

func (h *Shared) Cache() (*Cache, func()) {
	if h.borrow < 0 {
		panic("repository cache is already borrowed mutably")
	}
	h.borrow++
	return &h.cache, func() { h.borrow-- }
}

func (h *Shared) CacheMut() (*Cache, func()) {
	if h.borrow != 0 {
		panic("repository cache is already borrowed")
	}
	h.borrow = -1
	return &h.cache, func() { h.borrow = 0 }
}

// Clone shares the repository and constructs a brand-new, empty cache.
func (h *SharedArc) Clone() *SharedArc {
	return h.repo.SharedArc()
}

func (h *SharedArc) Repo() *Repository { return h.repo }

func (h *SharedArc) Cache() (*Cache, func()) {
	for {
		s := h.borrow.Load()
		if s < 0 {
			panic("repository cache is already borrowed mutably")
		}
		if h.borrow.CompareAndSwap(s, s+1) {
			return &h.cache, func() { h.borrow.Add(-1) }
		}
	}
}

func (h *SharedArc) CacheMut() (*Cache, func()) {
	if !h.borrow.CompareAndSwap(0, -1) {
		panic("repository cache is already borrowed")
	}
	return &h.cache, func() { h.borrow.Store(0) }
}

var (
	_ Access = (*Shared)(nil)
	_ Access = (*SharedArc)(nil)
)
