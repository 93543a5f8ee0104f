package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/services"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(t.TempDir(), "index.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_EmptyImport(t *testing.T) {
	store := newTestSQLiteStore(t)
	data, err := store.Import(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLiteStore_RoundTripKeepsKeyOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	in := sampleArtifact("payload")
	in.Put("index.title", "t")
	in.Put("index.content", "c")
	require.NoError(t, store.Export(ctx, in, services.ExportOptions{Override: true}))

	out, err := store.Import(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Keys, out.Keys)
	assert.Equal(t, in.Data, out.Data)
}

func TestSQLiteStore_OverrideSemantics(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Export(ctx, sampleArtifact("first"), services.ExportOptions{}))
	require.NoError(t, store.Export(ctx, sampleArtifact("second"), services.ExportOptions{}))
	out, err := store.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", out.Data["store.0"])

	replacement := sampleArtifact("third")
	require.NoError(t, store.Export(ctx, replacement, services.ExportOptions{Override: true}))
	out, err = store.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, "third", out.Data["store.0"])
	assert.Len(t, out.Keys, 2)
}
