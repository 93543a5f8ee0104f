package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/model"
)

func doc(path, title string) model.IndexedDocument {
	return model.IndexedDocument{ID: path, Path: path, Content: model.DocumentContent{Title: title}}
}

func TestDocumentStore_PutOverwritesInPlace(t *testing.T) {
	ds := NewDocumentStore()

	idA, prev := ds.Put(doc("/a", "first"))
	assert.Nil(t, prev)
	_, _ = ds.Put(doc("/b", "b"))

	idA2, prev := ds.Put(doc("/a", "second"))
	require.NotNil(t, prev)
	assert.Equal(t, "first", prev.Content.Title)
	assert.Equal(t, idA, idA2)

	got, ok := ds.Get("/a")
	require.True(t, ok)
	assert.Equal(t, "second", got.Content.Title)
	assert.Equal(t, []string{"/a", "/b"}, ds.IDs())
	assert.Equal(t, 2, ds.Count())
}

func TestDocumentStore_AllRespectsLimit(t *testing.T) {
	ds := NewDocumentStore()
	ds.Put(doc("/a", "a"))
	ds.Put(doc("/b", "b"))
	ds.Put(doc("/c", "c"))

	assert.Len(t, ds.All(0), 3)
	limited := ds.All(2)
	require.Len(t, limited, 2)
	assert.Equal(t, "/a", limited[0].ID)
	assert.Equal(t, "/b", limited[1].ID)
}

func TestDocumentStore_ChunksAndReload(t *testing.T) {
	ds := NewDocumentStore()
	for _, p := range []string{"/a", "/b", "/c", "/d", "/e"} {
		ds.Put(doc(p, p))
	}

	chunks := ds.Chunks(2)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[2].Entries, 1)

	restored := NewDocumentStore()
	restored.LoadRegistry(ds.IDs())
	for _, chunk := range chunks {
		restored.LoadChunk(chunk)
	}

	assert.Equal(t, ds.IDs(), restored.IDs())
	assert.Equal(t, ds.All(0), restored.All(0))
	assert.Equal(t, ds.NextID, restored.NextID)

	internalID, _ := restored.Put(doc("/f", "f"))
	assert.Equal(t, uint32(5), internalID)
}

func TestDocumentStore_MissingChunkLeavesRegistryGaps(t *testing.T) {
	ds := NewDocumentStore()
	ds.Put(doc("/a", "a"))
	ds.Put(doc("/b", "b"))
	chunks := ds.Chunks(1)

	restored := NewDocumentStore()
	restored.LoadRegistry([]string{"/a", "/b", "/a"})
	restored.LoadChunk(chunks[1])

	assert.Equal(t, []string{"/a", "/b"}, restored.IDs())
	all := restored.All(0)
	require.Len(t, all, 1)
	assert.Equal(t, "/b", all[0].ID)
	_, ok := restored.Get("/a")
	assert.False(t, ok)
}

func TestDocumentStore_PutKeepsRegisteredPosition(t *testing.T) {
	restored := NewDocumentStore()
	restored.LoadRegistry([]string{"/a", "/b"})

	idC, _ := restored.Put(doc("/c", "c"))
	idA, _ := restored.Put(doc("/a", "a"))

	assert.NotEqual(t, idC, idA)
	assert.Equal(t, []string{"/a", "/b", "/c"}, restored.IDs())
	all := restored.All(0)
	require.Len(t, all, 2)
	assert.Equal(t, "/a", all[0].ID)
	assert.Equal(t, "/c", all[1].ID)
}

func TestDocumentStore_Reset(t *testing.T) {
	ds := NewDocumentStore()
	ds.Put(doc("/a", "a"))
	ds.Reset()

	assert.Equal(t, 0, ds.Count())
	assert.Empty(t, ds.IDs())
	assert.Equal(t, uint32(0), ds.NextID)
}
