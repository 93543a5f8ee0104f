package store

import (
	"slices"
	"sync"

	"github.com/gcbaptista/go-site-index/model"
)

// StoredDocument pairs a document with the internal ID used by the inverted index.
type StoredDocument struct {
	InternalID uint32
	Document   model.IndexedDocument
}

// DocumentChunk is one serializable slice of the store.
type DocumentChunk struct {
	Entries []StoredDocument
}

// DocumentStore holds full documents keyed by internal ID, plus the ordered registry of document IDs.
type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.IndexedDocument // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32                // Document ID (page path) to internal uint32 ID
	Order                  []string                         // Document IDs in insertion order
	NextID                 uint32
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[uint32]model.IndexedDocument),
		ExternalIDtoInternalID: make(map[string]uint32),
		Order:                  make([]string, 0),
	}
}

// Put stores doc and returns its internal ID. When a document with the same ID already exists it
// is overwritten in place and the previous version is returned. An ID keeps its registry position.
func (ds *DocumentStore) Put(doc model.IndexedDocument) (uint32, *model.IndexedDocument) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	if internalID, exists := ds.ExternalIDtoInternalID[doc.ID]; exists {
		var previous *model.IndexedDocument
		if old, ok := ds.Docs[internalID]; ok {
			previous = &old
		}
		ds.Docs[internalID] = doc
		return internalID, previous
	}

	internalID := ds.NextID
	ds.NextID++
	ds.Docs[internalID] = doc
	ds.ExternalIDtoInternalID[doc.ID] = internalID
	// A registry imported without all of its documents already lists the ID.
	if len(ds.Order) < len(ds.ExternalIDtoInternalID) || !slices.Contains(ds.Order, doc.ID) {
		ds.Order = append(ds.Order, doc.ID)
	}
	return internalID, nil
}

// Get returns the document stored under id.
func (ds *DocumentStore) Get(id string) (model.IndexedDocument, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	internalID, ok := ds.ExternalIDtoInternalID[id]
	if !ok {
		return model.IndexedDocument{}, false
	}
	doc, ok := ds.Docs[internalID]
	return doc, ok
}

// GetByInternalID returns the document referenced by an index posting.
func (ds *DocumentStore) GetByInternalID(internalID uint32) (model.IndexedDocument, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	doc, ok := ds.Docs[internalID]
	return doc, ok
}

// All returns documents in registry order. A limit of zero or less returns every document.
// Registry entries whose document is missing are skipped.
func (ds *DocumentStore) All(limit int) []model.IndexedDocument {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	docs := make([]model.IndexedDocument, 0, len(ds.Order))
	for _, id := range ds.Order {
		if limit > 0 && len(docs) >= limit {
			break
		}
		internalID, ok := ds.ExternalIDtoInternalID[id]
		if !ok {
			continue
		}
		if doc, ok := ds.Docs[internalID]; ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// IDs returns a copy of the registry.
func (ds *DocumentStore) IDs() []string {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	ids := make([]string, len(ds.Order))
	copy(ids, ds.Order)
	return ids
}

// Count returns the number of stored documents.
func (ds *DocumentStore) Count() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	return len(ds.Docs)
}

// Reset drops every document and the registry.
func (ds *DocumentStore) Reset() {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = make(map[uint32]model.IndexedDocument)
	ds.ExternalIDtoInternalID = make(map[string]uint32)
	ds.Order = make([]string, 0)
	ds.NextID = 0
}

// Chunks splits the stored documents, in registry order, into chunks of at most size entries.
func (ds *DocumentStore) Chunks(size int) []DocumentChunk {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	if size <= 0 {
		size = len(ds.Order)
	}

	chunks := make([]DocumentChunk, 0)
	current := DocumentChunk{Entries: make([]StoredDocument, 0, size)}
	for _, id := range ds.Order {
		internalID, ok := ds.ExternalIDtoInternalID[id]
		if !ok {
			continue
		}
		doc, ok := ds.Docs[internalID]
		if !ok {
			continue
		}
		current.Entries = append(current.Entries, StoredDocument{InternalID: internalID, Document: doc})
		if len(current.Entries) == size {
			chunks = append(chunks, current)
			current = DocumentChunk{Entries: make([]StoredDocument, 0, size)}
		}
	}
	if len(current.Entries) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// LoadRegistry replaces the store contents with an empty registry of the given IDs.
// Documents are filled in afterwards by LoadChunk.
func (ds *DocumentStore) LoadRegistry(ids []string) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = make(map[uint32]model.IndexedDocument)
	ds.ExternalIDtoInternalID = make(map[string]uint32)
	ds.Order = make([]string, 0, len(ids))
	ds.NextID = 0

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ds.Order = append(ds.Order, id)
	}
}

// LoadChunk merges a decoded chunk. Entries whose ID is not in the registry are appended to it.
func (ds *DocumentStore) LoadChunk(chunk DocumentChunk) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	registered := make(map[string]struct{}, len(ds.Order))
	for _, id := range ds.Order {
		registered[id] = struct{}{}
	}

	for _, entry := range chunk.Entries {
		ds.Docs[entry.InternalID] = entry.Document
		ds.ExternalIDtoInternalID[entry.Document.ID] = entry.InternalID
		if _, ok := registered[entry.Document.ID]; !ok {
			ds.Order = append(ds.Order, entry.Document.ID)
			registered[entry.Document.ID] = struct{}{}
		}
		if entry.InternalID >= ds.NextID {
			ds.NextID = entry.InternalID + 1
		}
	}
}
