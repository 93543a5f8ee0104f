package services

import (
	"context"

	"github.com/gcbaptista/go-site-index/model"
)

// Source discovers candidate pages from one origin.
// Discover never fails: problems are logged and yield an empty list.
type Source interface {
	ProjectDir() string
	Kind() model.PageSource
	Discover(ctx context.Context) []model.PageCandidate
}

// Filter narrows a candidate list. Implementations must not mutate their input.
type Filter interface {
	Name() string
	Filter(ctx context.Context, candidates []model.PageCandidate) []model.PageCandidate
}

// Extractor turns raw markup into a StructuredPage.
// A nil page with a nil error means the markup has no extractable content.
type Extractor interface {
	Extract(markup string) (*model.StructuredPage, error)
}

// ExportOptions controls how an IndexStore writes an artifact.
type ExportOptions struct {
	Override bool // Replace an existing artifact
}

// IndexStore persists and retrieves the serialized index.
// Import returns nil, nil when no trustworthy artifact exists.
type IndexStore interface {
	Import(ctx context.Context) (*model.SearchIndexData, error)
	Export(ctx context.Context, data *model.SearchIndexData, opts ExportOptions) error
}

// ExportHandler receives one serialized chunk of an index.
type ExportHandler func(key, data string) error

// ImportHandler returns the serialized chunk stored under key.
type ImportHandler func(key string) (string, error)

// SearchOptions tunes a single query.
type SearchOptions struct {
	Limit   int  `json:"limit,omitempty"`   // Maximum hits returned; 0 uses the engine default
	Offset  int  `json:"offset,omitempty"`  // Hits skipped before Limit applies
	Suggest bool `json:"suggest,omitempty"` // Match any query term and tolerate typos
}

// HitResult represents a single document in the search results.
type HitResult struct {
	Document model.IndexedDocument `json:"document"`
	Fields   []string              `json:"fields"` // Fields that matched, in field priority order
	Score    float64               `json:"score"`  // BM25 score in the first matching field
}

// SearchResult is the response of a query.
type SearchResult struct {
	Hits    []HitResult `json:"hits"`
	Total   int         `json:"total"` // Hits before offset and limit were applied
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	Took    int64       `json:"took"`     // milliseconds
	QueryID string      `json:"query_id"` // unique UUID for this search query
}

// Documents returns the documents of every hit, in hit order.
func (r SearchResult) Documents() []model.IndexedDocument {
	docs := make([]model.IndexedDocument, len(r.Hits))
	for i, hit := range r.Hits {
		docs[i] = hit.Document
	}
	return docs
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query string, opts SearchOptions) (SearchResult, error)
}

// DocumentReader defines direct lookups that bypass ranking
type DocumentReader interface {
	GetDocument(path string) (model.IndexedDocument, bool)
	GetAllDocuments(limit int) []model.IndexedDocument
	Count() int
}

// SearchEngine is the full document index contract.
type SearchEngine interface {
	Searcher
	DocumentReader
	Initialize()
	AddPage(path string, page model.StructuredPage) error
	Clear()
	Export(handler ExportHandler) ([]string, error)
	Import(handler ImportHandler, keys []string) error
}
