package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
)

// decodeArtifact parses a JSON artifact read from location.
// Malformed or incomplete artifacts are logged and reported as nil.
func decodeArtifact(raw []byte, location string) *model.SearchIndexData {
	var data model.SearchIndexData
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.Warn("index artifact at %s is not valid JSON: %v", location, err)
		return nil
	}
	if !data.Valid() {
		logger.Warn("index artifact at %s is incomplete, ignoring it", location)
		return nil
	}
	return &data
}

// encodeArtifact serializes data after checking it can be imported again.
func encodeArtifact(data *model.SearchIndexData) ([]byte, error) {
	if !data.Valid() {
		return nil, errors.NewValidationError("data", "index artifact has no keys or is missing chunk data")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index artifact: %w", err)
	}
	return raw, nil
}
