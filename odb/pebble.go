package odb

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// Pebble keeps objects in a pebble key-value store: the key is the raw
// object id, the value is one kind byte followed by the payload.
type Pebble struct {
	conn *pebble.DB
}

// NewPebble opens (or creates) the store beneath "<path>/objects/pebble".
func NewPebble(path string) (*Pebble, error) {
	conn, err := pebble.Open(filepath.Join(path, "objects", "pebble"), &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Pebble{conn: conn}, nil
}

func (db *Pebble) Find(oid plumbing.Hash, buf []byte, c cache.Object) (*Object, error) {
	if obj, err := cacheGet(c, oid, buf); obj != nil || err != nil {
		return obj, err
	}
	value, closer, err := db.conn.Get(oid[:])
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()
	if len(value) == 0 {
		return nil, fmt.Errorf("empty record for object %s", oid)
	}
	kind := plumbing.ObjectType(int8(value[0]))
	data := append(buf[:0], value[1:]...)
	cachePut(c, kind, data)
	return &Object{Kind: kind, Data: data}, nil
}

// Put stores one object. It exists so stores can be seeded; the
// reference layer itself only reads.
func (db *Pebble) Put(oid plumbing.Hash, kind plumbing.ObjectType, data []byte) error {
	value := make([]byte, 0, len(data)+1)
	value = append(value, byte(kind))
	value = append(value, data...)
	return db.conn.Set(oid[:], value, pebble.Sync)
}

func (db *Pebble) Close() error {
	return db.conn.Close()
}
