package persistence

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"fmt"
)

// EncodeChunk gob-encodes object and returns it as a base64 string suitable for a SearchIndexData entry.
func EncodeChunk(object interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(object); err != nil {
		return "", fmt.Errorf("failed to gob encode chunk: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeChunk decodes a payload produced by EncodeChunk into the provided object pointer.
// The object must be a pointer to the type that was originally encoded.
func DecodeChunk(payload string, objectPointer interface{}) error {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("failed to base64 decode chunk: %w", err)
	}
	decoder := gob.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode chunk: %w", err)
	}
	return nil
}
