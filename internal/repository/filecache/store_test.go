package filecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_ListingPageRoundtrip(t *testing.T) {
	store, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	doc := map[string]interface{}{"response": map[string]interface{}{"ok": true}}
	require.NoError(t, store.WriteListingPage(3, doc))

	data, err := store.ReadListingPage(3)
	require.NoError(t, err)
	require.NotNil(t, data)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc, got)
}

func TestStore_ReadMissReturnsNil(t *testing.T) {
	store, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	data, err := store.ReadListingPage(99)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = store.ReadHashed("schools", "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_ListListingPages(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.WriteListingPage(2, "b"))
	require.NoError(t, store.WriteListingPage(10, "c"))
	require.NoError(t, store.WriteListingPage(1, "a"))
	require.NoError(t, store.WriteHashed("schools", "abc123", "ignored"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644))

	paths, err := store.ListListingPages()
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "page_0001.json", filepath.Base(paths[0]))
	assert.Equal(t, "page_0002.json", filepath.Base(paths[1]))
	assert.Equal(t, "page_0010.json", filepath.Base(paths[2]))
}

func TestStore_ListMissingDirectory(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "nope"), zap.NewNop())

	paths, err := store.ListListingPages()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStore_HashKey(t *testing.T) {
	store := Open(t.TempDir(), zap.NewNop())

	k1 := store.HashKey(map[string]string{"lat": "40.9"})
	k2 := store.HashKey(map[string]string{"lat": "40.9"})
	k3 := store.HashKey(map[string]string{"lat": "41.0"})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 32)
}

func TestStore_HashedRoundtrip(t *testing.T) {
	store, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	key := store.HashKey("query")
	require.NoError(t, store.WriteHashed("schools", key, map[string]int{"items": 2}))

	data, err := store.ReadHashed("schools", key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items": 2}`, string(data))
}
