package odb

import (
	"fmt"

	gremlin "github.com/apache/tinkerpop/gremlin-go/v3/driver"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
)

// Gremlin reads objects from a gremlin graph server. Each object is a
// vertex labelled with its kind, carrying "oid" and "payload"
// properties.
type Gremlin struct {
	conn *gremlin.DriverRemoteConnection
}

// NewGremlin connects to the server at connectionString.
func NewGremlin(connectionString string) (*Gremlin, error) {
	conn, err := gremlin.NewDriverRemoteConnection(connectionString)
	if err != nil {
		return nil, err
	}
	return &Gremlin{conn: conn}, nil
}

func (db *Gremlin) Find(oid plumbing.Hash, buf []byte, c cache.Object) (*Object, error) {
	if obj, err := cacheGet(c, oid, buf); obj != nil || err != nil {
		return obj, err
	}
	g := gremlin.Traversal_().WithRemote(db.conn)

	res, err := g.V().Has("oid", oid.String()).Next()
	if err != nil {
		// The driver reports an exhausted traversal as an error.
		return nil, nil
	}
	v, err := res.GetVertex()
	if err != nil {
		return nil, err
	}
	kind, err := plumbing.ParseObjectType(v.Label)
	if err != nil {
		return nil, err
	}

	res, err = g.V(v.Id).Values("payload").Next()
	if err != nil {
		return nil, err
	}
	data := append(buf[:0], res.GetString()...)
	cachePut(c, kind, data)
	return &Object{Kind: kind, Data: data}, nil
}

// Put stores one object vertex. Only blob and tag payloads are
// supported for now.
func (db *Gremlin) Put(oid plumbing.Hash, kind plumbing.ObjectType, data []byte) error {
	switch kind {
	case plumbing.BlobObject, plumbing.TagObject, plumbing.CommitObject:
		g := gremlin.Traversal_().WithRemote(db.conn)
		_, err := g.AddV(kind.String()).
			Property("oid", oid.String()).
			Property("payload", string(data)).
			Next()
		return err
	default:
		return fmt.Errorf("storing %s objects is not implemented", kind)
	}
}

func (db *Gremlin) Close() error {
	db.conn.Close()
	return nil
}
