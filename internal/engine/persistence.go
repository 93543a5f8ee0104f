package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/persistence"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
	"github.com/gcbaptista/go-site-index/store"
)

// Chunk key layout of an exported index.
const (
	// DocumentIDsKey holds the JSON array of document IDs in insertion order. It is always written first.
	DocumentIDsKey = "document_ids"

	storeChunkPrefix = "store."
	indexChunkPrefix = "index."
)

// Export serializes the engine into chunks, handing each to handler in order, and returns the
// keys written. The first key is always DocumentIDsKey.
func (e *Engine) Export(handler services.ExportHandler) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return nil, errors.NewNotInitializedError("export")
	}

	keys := make([]string, 0)
	write := func(key, payload string) error {
		if err := handler(key, payload); err != nil {
			return fmt.Errorf("failed to export chunk %s: %w", key, err)
		}
		keys = append(keys, key)
		return nil
	}

	ids, err := json.Marshal(e.documentStore.IDs())
	if err != nil {
		return nil, fmt.Errorf("failed to encode document ids: %w", err)
	}
	if err := write(DocumentIDsKey, string(ids)); err != nil {
		return nil, err
	}

	for i, chunk := range e.documentStore.Chunks(e.settings.StoreChunkSize) {
		payload, err := persistence.EncodeChunk(chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to encode document chunk %d: %w", i, err)
		}
		if err := write(fmt.Sprintf("%s%d", storeChunkPrefix, i), payload); err != nil {
			return nil, err
		}
	}

	for _, field := range e.invertedIndex.Fields() {
		payload, err := persistence.EncodeChunk(e.invertedIndex.Field(field))
		if err != nil {
			return nil, fmt.Errorf("failed to encode index of field %s: %w", field, err)
		}
		if err := write(indexChunkPrefix+field, payload); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// Import replaces the engine contents with the chunks listed in keys, fetched through handler.
// The document ID registry is required; any other chunk that cannot be fetched or decoded is
// logged and skipped. The engine is initialized afterwards.
func (e *Engine) Import(handler services.ImportHandler, keys []string) error {
	if !slices.Contains(keys, DocumentIDsKey) {
		return errors.NewValidationError(DocumentIDsKey, "index keys do not include the document id registry")
	}

	raw, err := handler(DocumentIDsKey)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", DocumentIDsKey, err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return errors.NewValidationError(DocumentIDsKey, fmt.Sprintf("invalid document id registry: %v", err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.indexer.Reset()
	e.documentStore.LoadRegistry(ids)

	for _, key := range keys {
		if key == DocumentIDsKey {
			continue
		}
		payload, err := handler(key)
		if err != nil {
			logger.Warn("skipping index chunk %s: %v", key, err)
			continue
		}
		if err := e.importChunk(key, payload); err != nil {
			logger.Warn("skipping index chunk %s: %v", key, err)
		}
	}

	// Postings of documents whose store chunk was skipped would resolve to reused internal IDs.
	for _, field := range e.invertedIndex.Fields() {
		dropped := e.invertedIndex.Field(field).Retain(func(docID uint32) bool {
			_, ok := e.documentStore.GetByInternalID(docID)
			return ok
		})
		if dropped > 0 {
			logger.Warn("dropped %d %s postings without a stored document", dropped, field)
		}
	}

	e.initialized = true
	e.searcher.Invalidate()
	logger.Debug("imported %d documents from %d chunks", e.documentStore.Count(), len(keys))
	return nil
}

func (e *Engine) importChunk(key, payload string) error {
	switch {
	case strings.HasPrefix(key, storeChunkPrefix):
		var chunk store.DocumentChunk
		if err := persistence.DecodeChunk(payload, &chunk); err != nil {
			return err
		}
		e.documentStore.LoadChunk(chunk)
	case strings.HasPrefix(key, indexChunkPrefix):
		var fieldIndex index.FieldIndex
		if err := persistence.DecodeChunk(payload, &fieldIndex); err != nil {
			return err
		}
		if fieldIndex.Field != strings.TrimPrefix(key, indexChunkPrefix) {
			return fmt.Errorf("chunk holds field %q", fieldIndex.Field)
		}
		if !e.invertedIndex.ReplaceField(&fieldIndex) {
			return fmt.Errorf("field %q is not searchable in this engine", fieldIndex.Field)
		}
	default:
		return fmt.Errorf("unknown chunk type")
	}
	return nil
}

// ExportData serializes the engine into a SearchIndexData artifact.
func (e *Engine) ExportData() (*model.SearchIndexData, error) {
	data := model.NewSearchIndexData()
	keys, err := e.Export(func(key, payload string) error {
		data.Put(key, payload)
		return nil
	})
	if err != nil {
		return nil, err
	}
	data.Keys = keys
	return data, nil
}

// ImportData loads a SearchIndexData artifact produced by ExportData.
func (e *Engine) ImportData(data *model.SearchIndexData) error {
	if data == nil {
		return errors.NewValidationError("data", "index artifact cannot be nil")
	}
	return e.Import(func(key string) (string, error) {
		payload, ok := data.Data[key]
		if !ok {
			return "", fmt.Errorf("chunk %s is missing from the artifact", key)
		}
		return payload, nil
	}, data.Keys)
}
