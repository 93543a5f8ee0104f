package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/testutil"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(config.DefaultIndexSettings())
	require.NoError(t, err)
	eng.Initialize()
	return eng
}

func seedEngine(t *testing.T, eng *Engine) {
	t.Helper()
	pages := []struct {
		path string
		page model.StructuredPage
	}{
		{"/", model.StructuredPage{Title: "Home", Description: "Welcome to the docs", Content: "Start here"}},
		{"/guides/install/", model.StructuredPage{Title: "Install guide", Content: "Download the installer and run it"}},
		{"/blog/release", model.StructuredPage{
			Title:    "Release notes",
			Content:  "The install flow is faster",
			Metadata: &model.PageMetadata{Author: "Grace", Keywords: []string{"changelog"}},
		}},
	}
	for _, p := range pages {
		require.NoError(t, eng.AddPage(p.path, p.page))
	}
}

func TestNew_RejectsUnknownFields(t *testing.T) {
	_, err := New(config.IndexSettings{SearchableFields: []string{"title", "price"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestEngine_NotInitialized(t *testing.T) {
	eng, err := New(config.DefaultIndexSettings())
	require.NoError(t, err)
	assert.False(t, eng.Initialized())

	err = eng.AddPage("/a", model.StructuredPage{Title: "a"})
	assert.ErrorIs(t, err, errors.ErrNotInitialized)

	_, err = eng.Search("a", services.SearchOptions{})
	assert.ErrorIs(t, err, errors.ErrNotInitialized)

	_, err = eng.Export(func(string, string) error { return nil })
	assert.ErrorIs(t, err, errors.ErrNotInitialized)

	eng.Initialize()
	eng.Initialize()
	assert.True(t, eng.Initialized())
	assert.NoError(t, eng.AddPage("/a", model.StructuredPage{Title: "a"}))
}

func TestEngine_DocumentsAndCount(t *testing.T) {
	eng := newTestEngine(t)
	seedEngine(t, eng)

	assert.Equal(t, 3, eng.Count())

	doc, ok := eng.GetDocument("/guides/install/")
	require.True(t, ok)
	assert.Equal(t, "/guides/install/", doc.ID)
	assert.Equal(t, doc.ID, doc.Path)
	assert.Equal(t, "Install guide", doc.Content.Title)

	_, ok = eng.GetDocument("/missing")
	assert.False(t, ok)

	all := eng.GetAllDocuments(0)
	require.Len(t, all, 3)
	assert.Equal(t, "/", all[0].Path)
	assert.Equal(t, "/blog/release", all[2].Path)
	assert.Len(t, eng.GetAllDocuments(2), 2)
}

func TestEngine_ReAddOverwrites(t *testing.T) {
	eng := newTestEngine(t)
	require.NoError(t, eng.AddPage("/a", model.StructuredPage{Title: "first"}))
	require.NoError(t, eng.AddPage("/a", model.StructuredPage{Title: "second"}))

	assert.Equal(t, 1, eng.Count())
	testutil.RunSearchTests(t, eng, []testutil.SearchTestCase{
		{Name: "old text gone", Query: "first", ExpectedPaths: []string{}},
		{Name: "new text found", Query: "second", ExpectedPaths: []string{"/a"}},
	})
}

func TestEngine_Search(t *testing.T) {
	eng := newTestEngine(t)
	seedEngine(t, eng)

	testutil.RunSearchTests(t, eng, []testutil.SearchTestCase{
		{Name: "single term in title", Query: "release", ExpectedPaths: []string{"/blog/release"}},
		{Name: "title before content", Query: "install", ExpectedPaths: []string{"/guides/install/", "/blog/release"}},
		{Name: "author field", Query: "grace", ExpectedPaths: []string{"/blog/release"}},
		{Name: "keywords field", Query: "changelog", ExpectedPaths: []string{"/blog/release"}},
		{Name: "description field", Query: "welcome", ExpectedPaths: []string{"/"}},
		{Name: "no hits", Query: "kubernetes", ExpectedPaths: []string{}},
		{Name: "limit", Query: "install", Options: services.SearchOptions{Limit: 1}, ExpectedPaths: []string{"/guides/install/"}},
	})
}

func TestEngine_Clear(t *testing.T) {
	eng := newTestEngine(t)
	seedEngine(t, eng)

	eng.Clear()

	assert.Equal(t, 0, eng.Count())
	assert.True(t, eng.Initialized())
	result, err := eng.Search("install", services.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestEngine_ClearInitializes(t *testing.T) {
	eng, err := New(config.DefaultIndexSettings())
	require.NoError(t, err)

	eng.Clear()

	assert.True(t, eng.Initialized())
	assert.NoError(t, eng.AddPage("/a", model.StructuredPage{Title: "a"}))
}

func TestEngine_ConcurrentReads(t *testing.T) {
	eng := newTestEngine(t)
	seedEngine(t, eng)

	const readers = 8
	var wg sync.WaitGroup
	errs := make(chan error, readers*3)
	for i := 0; i < readers; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				result, err := eng.Search("instal", services.SearchOptions{Suggest: true})
				if err != nil {
					errs <- err
					return
				}
				if len(result.Hits) == 0 {
					errs <- fmt.Errorf("suggest search returned no hits")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := eng.Search("install", services.SearchOptions{}); err != nil {
					errs <- err
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if len(eng.GetAllDocuments(0)) != eng.Count() {
					errs <- fmt.Errorf("document listing and count disagree")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
