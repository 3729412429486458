package repository

import (
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5225225/gitoxide/odb"
	"github.com/5225225/gitoxide/refs"
)

// stubDB is an in-memory object database that counts lookups.
type stubDB struct {
	objects map[plumbing.Hash]odb.Object
	calls   int
}

func (s *stubDB) Find(oid plumbing.Hash, buf []byte, _ cache.Object) (*odb.Object, error) {
	s.calls++
	obj, ok := s.objects[oid]
	if !ok {
		return nil, nil
	}
	return &odb.Object{Kind: obj.Kind, Data: append(buf[:0], obj.Data...)}, nil
}

func (s *stubDB) Close() error { return nil }

func hash(s string) plumbing.Hash {
	return plumbing.NewHash(s)
}

func TestPackedPeelUsesPrecomputedID(t *testing.T) {
	db := &stubDB{}
	repo := testRepository(t, db)
	handle := repo.Shared()

	ref, err := handle.FindReference("refs/tags/v1")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, refs.FullName("refs/tags/v1"), ref.Name())
	assert.Equal(t, hexA, ref.Target().ID().String())

	obj, err := ref.PeelToObjectInPlace()
	require.NoError(t, err)
	assert.Equal(t, hexB, obj.ID().String())
	assert.Zero(t, db.calls, "a precomputed peeled id needs no object lookup")

	// The peeled id became the target and stays put.
	assert.Equal(t, hexB, ref.Target().ID().String())
	obj2, err := ref.PeelToObjectInPlace()
	require.NoError(t, err)
	assert.True(t, obj.Equal(obj2))
	assert.Zero(t, db.calls)
}

func TestLoosePeelMemoizes(t *testing.T) {
	db := &stubDB{objects: map[plumbing.Hash]odb.Object{
		hash(hexA): {Kind: plumbing.CommitObject, Data: []byte("tree ...")},
	}}
	repo := testRepository(t, db)
	handle := repo.Shared()

	ref, err := handle.FindReference("main")
	require.NoError(t, err)
	require.NotNil(t, ref)

	obj, err := ref.PeelToObjectInPlace()
	require.NoError(t, err)
	assert.Equal(t, hexA, obj.ID().String())
	assert.Equal(t, 1, db.calls)

	obj2, err := ref.PeelToObjectInPlace()
	require.NoError(t, err)
	assert.True(t, obj.Equal(obj2))
	assert.Equal(t, 1, db.calls, "second peel does no lookups")
}

func TestFindReferencePrefersLoose(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "refs/heads/main", hexA+"\n")
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/main\n", hexB))
	repo := &Repository{Refs: refs.NewStore(fs, "."), Objects: &stubDB{}}
	handle := repo.Shared()

	ref, err := handle.FindReference("refs/heads/main")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, hexA, ref.Target().ID().String(), "the loose file shadows the packed row")
}

func TestFindReferencePackedOnly(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "packed-refs", fmt.Sprintf("%s refs/heads/frozen\n", hexB))
	repo := &Repository{Refs: refs.NewStore(fs, "."), Objects: &stubDB{}}
	handle := repo.Shared()

	ref, err := handle.FindReference("frozen")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, refs.FullName("refs/heads/frozen"), ref.Name())
	assert.Equal(t, hexB, ref.Target().ID().String())
}

func TestFindReferenceMissing(t *testing.T) {
	repo := testRepository(t, nil)
	handle := repo.Shared()

	ref, err := handle.FindReference("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestPeelErrorSurfacesPackedOpenFailure(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "refs/heads/main", "ref: refs/tags/v1\n")
	writeFile(t, fs, "packed-refs", "garbage\n")
	repo := &Repository{Refs: refs.NewStore(fs, "."), Objects: &stubDB{}}
	handle := repo.Shared()

	ref, err := handle.FindReference("refs/heads/main")
	require.NoError(t, err)
	require.NotNil(t, ref)

	_, err = ref.PeelToObjectInPlace()
	var peelErr *PeelError
	require.ErrorAs(t, err, &peelErr)
	var openErr *refs.OpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestObjectIdentityAcrossHandles(t *testing.T) {
	db := &stubDB{objects: map[plumbing.Hash]odb.Object{
		hash(hexA): {Kind: plumbing.CommitObject, Data: []byte("tree ...")},
	}}
	repo := testRepository(t, db)

	shared := repo.Shared()
	arc := repo.SharedArc()

	looseRef, err := shared.FindReference("refs/heads/main")
	require.NoError(t, err)
	looseObj, err := looseRef.PeelToObjectInPlace()
	require.NoError(t, err)

	// refs/tags/v1 peels to a different commit than the loose branch.
	packedRef, err := arc.FindReference("refs/tags/v1")
	require.NoError(t, err)
	packedObj, err := packedRef.PeelToObjectInPlace()
	require.NoError(t, err)

	assert.False(t, looseObj.Equal(packedObj))

	// The same reference peeled through different handle kinds yields
	// equal objects.
	arcRef, err := arc.FindReference("refs/heads/main")
	require.NoError(t, err)
	arcObj, err := arcRef.PeelToObjectInPlace()
	require.NoError(t, err)
	assert.True(t, looseObj.Equal(arcObj))
}
