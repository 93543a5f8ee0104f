// Package testutil provides fixtures and helpers for testing the site index.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// WriteFiles creates every file of files (relative path -> content) under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750), "Failed to create directory for %s", rel)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600), "Failed to write %s", rel)
	}
}

// HTMLPage returns a minimal HTML document with the given title and body text.
func HTMLPage(title, body string) string {
	return "<!doctype html><html><head><title>" + title + "</title></head><body><main><p>" +
		body + "</p></main></body></html>"
}

// MemoryStore is an in-memory services.IndexStore.
type MemoryStore struct {
	mu      sync.Mutex
	data    *model.SearchIndexData
	Imports int
	Exports int
}

var _ services.IndexStore = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding data (which may be nil).
func NewMemoryStore(data *model.SearchIndexData) *MemoryStore {
	return &MemoryStore{data: data}
}

// Import returns the stored artifact, or nil when it is absent or invalid.
func (s *MemoryStore) Import(_ context.Context) (*model.SearchIndexData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Imports++
	if !s.data.Valid() {
		return nil, nil
	}
	return s.data, nil
}

// Export stores data, keeping an existing artifact unless opts.Override is set.
func (s *MemoryStore) Export(_ context.Context, data *model.SearchIndexData, opts services.ExportOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Exports++
	if s.data != nil && !opts.Override {
		return nil
	}
	s.data = data
	return nil
}

// Data returns the stored artifact.
func (s *MemoryStore) Data() *model.SearchIndexData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// StubExtractor treats markup as "Title|Content". Markup without a separator has no content,
// and markup starting with "error" fails.
type StubExtractor struct{}

// Extract implements services.Extractor.
func (StubExtractor) Extract(markup string) (*model.StructuredPage, error) {
	if strings.HasPrefix(markup, "error") {
		return nil, assert.AnError
	}
	title, content, ok := strings.Cut(markup, "|")
	if !ok {
		return nil, nil
	}
	return &model.StructuredPage{Title: title, Content: content}, nil
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Query         string
	Options       services.SearchOptions
	ExpectedPaths []string // Expected hit paths, in order
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := searcher.Search(tt.Query, tt.Options)
			require.NoError(t, err, "Search should not fail")

			paths := make([]string, 0, len(results.Hits))
			for _, hit := range results.Hits {
				paths = append(paths, hit.Document.Path)
			}
			assert.Equal(t, tt.ExpectedPaths, paths, "Hit paths should match")
		})
	}
}

// CandidatePaths returns the paths of candidates, in order.
func CandidatePaths(candidates []model.PageCandidate) []string {
	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}
	return paths
}
