package indexing

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/tokenizer"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/store"
)

// Service writes documents into the per-field inverted index and the document store.
// Callers serialize writes; the engine holds its write lock around every call.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      config.IndexSettings
}

// NewService creates a new indexing Service.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore, settings config.IndexSettings) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		settings:      settings,
	}, nil
}

// AddPage maps page onto an IndexedDocument stored under path and indexes its searchable fields.
// A document previously stored under the same path is replaced and its postings removed.
func (s *Service) AddPage(path string, page model.StructuredPage) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewValidationError("path", "page path cannot be empty")
	}

	doc := model.NewIndexedDocument(path, page)
	internalID, previous := s.documentStore.Put(doc)
	if previous != nil {
		s.removeFromIndex(internalID, *previous)
	}
	s.addToIndex(internalID, doc)
	return nil
}

// Reset drops every document and posting.
func (s *Service) Reset() {
	s.documentStore.Reset()
	s.invertedIndex.Reset()
}

func (s *Service) addToIndex(internalID uint32, doc model.IndexedDocument) {
	for _, field := range s.invertedIndex.Fields() {
		terms := s.FieldTerms(field, doc.FieldText(field))
		if len(terms) == 0 {
			continue
		}
		s.invertedIndex.Field(field).Add(internalID, terms)
	}
}

func (s *Service) removeFromIndex(internalID uint32, old model.IndexedDocument) {
	for _, field := range s.invertedIndex.Fields() {
		s.invertedIndex.Field(field).Remove(internalID, s.FieldTerms(field, old.FieldText(field)))
	}
}

// FieldTerms tokenizes text the way field is indexed: with prefix n-grams unless the field
// has prefix search disabled.
func (s *Service) FieldTerms(field, text string) []tokenizer.Term {
	if text == "" {
		return nil
	}
	if s.settings.PrefixSearchEnabled(field) {
		return tokenizer.TokenizeWithPrefixNGrams(text)
	}
	return tokenizer.TokenizeWholeWords(text)
}
