package refs

import (
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedAbsentFile(t *testing.T) {
	store := NewStore(memfs.New(), ".")
	buf, err := store.Packed()
	require.NoError(t, err)
	assert.Nil(t, buf)
}

func TestPackedParse(t *testing.T) {
	fs := memfs.New()
	content := fmt.Sprintf(`# pack-refs with: peeled fully-peeled sorted
%s refs/heads/main
%s refs/tags/v1
^%s
`, hexA, hexB, hexC)
	writeRef(t, fs, "packed-refs", content)
	store := NewStore(fs, ".")

	buf, err := store.Packed()
	require.NoError(t, err)
	require.NotNil(t, buf)
	assert.Equal(t, 2, buf.Len())

	main := buf.Find("refs/heads/main")
	require.NotNil(t, main)
	assert.Equal(t, hexA, main.Target.String())
	assert.True(t, main.Peeled.IsZero())

	tag := buf.Find("refs/tags/v1")
	require.NotNil(t, tag)
	assert.Equal(t, hexB, tag.Target.String())
	assert.Equal(t, hexC, tag.Peeled.String())

	assert.Nil(t, buf.Find("refs/heads/gone"))
}

// Lookup must work even when the file rows are not sorted.
func TestPackedSortsUnsortedInput(t *testing.T) {
	fs := memfs.New()
	content := fmt.Sprintf("%s refs/tags/v1\n%s refs/heads/main\n%s refs/heads/dev\n", hexA, hexB, hexC)
	writeRef(t, fs, "packed-refs", content)

	buf, err := NewStore(fs, ".").Packed()
	require.NoError(t, err)
	require.NotNil(t, buf)

	rows := buf.Refs()
	require.Len(t, rows, 3)
	assert.Equal(t, FullName("refs/heads/dev"), rows[0].Name)
	assert.Equal(t, FullName("refs/heads/main"), rows[1].Name)
	assert.Equal(t, FullName("refs/tags/v1"), rows[2].Name)

	for _, row := range rows {
		assert.Equal(t, &row, buf.Find(row.Name), "find %q", row.Name)
	}
}

func TestPackedParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing name", content: hexA + "\n"},
		{name: "bad hash", content: "zzzz refs/heads/main\n"},
		{name: "orphan peeled line", content: "^" + hexA + "\n"},
		{name: "invalid name", content: hexA + " refs/../main\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			writeRef(t, fs, "packed-refs", tt.content)
			_, err := NewStore(fs, ".").Packed()
			var openErr *OpenError
			assert.ErrorAs(t, err, &openErr)
		})
	}
}

func TestPackedFindPartial(t *testing.T) {
	fs := memfs.New()
	content := fmt.Sprintf("%s refs/heads/main\n%s refs/tags/v1\n", hexA, hexB)
	writeRef(t, fs, "packed-refs", content)

	buf, err := NewStore(fs, ".").Packed()
	require.NoError(t, err)

	row := buf.FindPartial("main")
	require.NotNil(t, row)
	assert.Equal(t, FullName("refs/heads/main"), row.Name)

	row = buf.FindPartial("v1")
	require.NotNil(t, row)
	assert.Equal(t, FullName("refs/tags/v1"), row.Name)

	assert.Nil(t, buf.FindPartial("gone"))
}
