// Package odb provides lookup of content-addressed objects by id, the
// capability the reference layer needs to peel references. Three
// backends are available: the standard git on-disk layout, a pebble
// key-value store and a gremlin graph server.
package odb

import (
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// Object is a raw object: its kind and the undecoded payload bytes.
type Object struct {
	Kind plumbing.ObjectType
	Data []byte
}

// Database is a read capability over one object store.
type Database interface {
	// Find returns the object with the given id, or (nil, nil) when the
	// store has no such object. The returned data may reuse buf. c, if
	// non-nil, is an object cache the backend may consult and populate.
	Find(oid plumbing.Hash, buf []byte, c cache.Object) (*Object, error)
	Close() error
}

// NewObjectCache returns the LRU cache handed to Find calls.
func NewObjectCache() cache.Object {
	return cache.NewObjectLRUDefault()
}

func cacheGet(c cache.Object, oid plumbing.Hash, buf []byte) (*Object, error) {
	if c == nil {
		return nil, nil
	}
	obj, ok := c.Get(oid)
	if !ok {
		return nil, nil
	}
	return fromEncoded(obj, buf)
}

func cachePut(c cache.Object, kind plumbing.ObjectType, data []byte) {
	if c == nil {
		return
	}
	obj := &plumbing.MemoryObject{}
	obj.SetType(kind)
	obj.SetSize(int64(len(data)))
	obj.Write(data)
	c.Put(obj)
}

func fromEncoded(obj plumbing.EncodedObject, buf []byte) (*Object, error) {
	r, err := obj.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := readInto(r, buf)
	if err != nil {
		return nil, err
	}
	return &Object{Kind: obj.Type(), Data: data}, nil
}

func readInto(r io.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
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
