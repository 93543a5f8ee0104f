// Package engine provides the in-memory search engine over indexed site pages.
package engine

import (
	"strings"
	"sync"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/indexing"
	"github.com/gcbaptista/go-site-index/internal/search"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
	"github.com/gcbaptista/go-site-index/store"
)

// Engine is a multi-field inverted index with BM25 ranking and chunked export/import.
// It implements the services.SearchEngine interface.
type Engine struct {
	mu          sync.RWMutex
	settings    config.IndexSettings
	initialized bool

	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      *search.Service
}

var _ services.SearchEngine = (*Engine)(nil)

// New creates an uninitialized engine. Missing settings get their defaults; settings that
// reference unknown fields are rejected with a ConfigurationError.
func New(settings config.IndexSettings) (*Engine, error) {
	settings.ApplyDefaults()
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return nil, errors.NewConfigurationError("index", strings.Join(conflicts, "; "))
	}

	invIdx := index.NewInvertedIndex(settings.SearchableFields)
	docStore := store.NewDocumentStore()

	indexer, err := indexing.NewService(invIdx, docStore, settings)
	if err != nil {
		return nil, err
	}
	searcher, err := search.NewService(invIdx, docStore, settings)
	if err != nil {
		return nil, err
	}

	return &Engine{
		settings:      settings,
		invertedIndex: invIdx,
		documentStore: docStore,
		indexer:       indexer,
		searcher:      searcher,
	}, nil
}

// Settings returns the effective settings of the engine.
func (e *Engine) Settings() config.IndexSettings {
	return e.settings
}

// Initialize makes the engine ready for writes and queries. Calling it again is a no-op.
func (e *Engine) Initialize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = true
}

// Initialized reports whether Initialize or Import has completed.
func (e *Engine) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// AddPage indexes page under path, replacing any document already stored there.
func (e *Engine) AddPage(path string, page model.StructuredPage) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return errors.NewNotInitializedError("add page")
	}
	if err := e.indexer.AddPage(path, page); err != nil {
		return err
	}
	e.searcher.Invalidate()
	return nil
}

// Search queries the index. A query without hits returns an empty result, not an error.
func (e *Engine) Search(query string, opts services.SearchOptions) (services.SearchResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return services.SearchResult{}, errors.NewNotInitializedError("search")
	}
	return e.searcher.Search(query, opts)
}

// GetDocument returns the document stored under path.
func (e *Engine) GetDocument(path string) (model.IndexedDocument, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.documentStore.Get(path)
}

// GetAllDocuments returns documents in the order they were added. A limit of zero returns all.
func (e *Engine) GetAllDocuments(limit int) []model.IndexedDocument {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.documentStore.All(limit)
}

// Count returns the number of indexed documents.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.documentStore.Count()
}

// Clear drops every document and leaves the engine initialized and empty.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.indexer.Reset()
	e.initialized = true
	e.searcher.Invalidate()
}
