package odb

import (
	"errors"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Filesystem reads the default git on-disk object layout (loose objects
// and packfiles beneath "<gitdir>/objects").
type Filesystem struct {
	storage *filesystem.Storage
}

// NewFilesystem returns a database over the objects of the repository
// at gitDir.
func NewFilesystem(gitDir string) *Filesystem {
	return &Filesystem{
		storage: filesystem.NewStorage(osfs.New(gitDir), cache.NewObjectLRUDefault()),
	}
}

// Find implements Database. The storage carries its own decoded-object
// LRU, so the caller-supplied cache is left to the KV backends.
func (db *Filesystem) Find(oid plumbing.Hash, buf []byte, _ cache.Object) (*Object, error) {
	obj, err := db.storage.EncodedObject(plumbing.AnyObject, oid)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fromEncoded(obj, buf)
}

func (db *Filesystem) Close() error {
	return nil
}
