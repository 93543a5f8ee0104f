package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/store"
)

func setupTestIndexingService(t *testing.T) (*Service, *index.InvertedIndex, *store.DocumentStore) {
	t.Helper()
	settings := config.DefaultIndexSettings()
	invIdx := index.NewInvertedIndex(settings.SearchableFields)
	docStore := store.NewDocumentStore()

	service, err := NewService(invIdx, docStore, settings)
	require.NoError(t, err)
	return service, invIdx, docStore
}

func TestNewService_NilDependencies(t *testing.T) {
	_, err := NewService(nil, store.NewDocumentStore(), config.DefaultIndexSettings())
	assert.Error(t, err)
	_, err = NewService(index.NewInvertedIndex(nil), nil, config.DefaultIndexSettings())
	assert.Error(t, err)
}

func TestAddPage_IndexesFields(t *testing.T) {
	service, invIdx, docStore := setupTestIndexingService(t)

	err := service.AddPage("/docs", model.StructuredPage{
		Title:       "Getting Started",
		Description: "Install the toolkit",
		Content:     "Run the installer",
		Metadata:    &model.PageMetadata{Author: "Ada", Keywords: []string{"setup", "install"}},
	})
	require.NoError(t, err)

	doc, ok := docStore.Get("/docs")
	require.True(t, ok)
	assert.Equal(t, "/docs", doc.ID)
	assert.Equal(t, "Ada", doc.Content.Author)

	assert.Len(t, invIdx.Field(model.FieldTitle).Postings("started"), 1)
	assert.Len(t, invIdx.Field(model.FieldTitle).Postings("sta"), 1, "title has prefix search")
	assert.Len(t, invIdx.Field(model.FieldContent).Postings("installer"), 1)
	assert.Nil(t, invIdx.Field(model.FieldContent).Postings("inst"), "content is whole words only")
	assert.Len(t, invIdx.Field(model.FieldAuthor).Postings("ada"), 1)
	assert.Len(t, invIdx.Field(model.FieldKeywords).Postings("setup"), 1)
}

func TestAddPage_ReplacesPreviousVersion(t *testing.T) {
	service, invIdx, docStore := setupTestIndexingService(t)

	require.NoError(t, service.AddPage("/a", model.StructuredPage{Title: "old title"}))
	require.NoError(t, service.AddPage("/a", model.StructuredPage{Title: "new title"}))

	assert.Equal(t, 1, docStore.Count())
	assert.Nil(t, invIdx.Field(model.FieldTitle).Postings("old"))
	assert.Len(t, invIdx.Field(model.FieldTitle).Postings("new"), 1)
	assert.Len(t, invIdx.Field(model.FieldTitle).Postings("title"), 1)
}

func TestAddPage_RejectsEmptyPath(t *testing.T) {
	service, _, _ := setupTestIndexingService(t)
	err := service.AddPage("  ", model.StructuredPage{Title: "x"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestReset(t *testing.T) {
	service, invIdx, docStore := setupTestIndexingService(t)
	require.NoError(t, service.AddPage("/a", model.StructuredPage{Title: "alpha"}))

	service.Reset()

	assert.Equal(t, 0, docStore.Count())
	assert.Nil(t, invIdx.Field(model.FieldTitle).Postings("alpha"))
}
