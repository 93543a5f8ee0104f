package model

// SearchIndexData is the persisted, chunked serialization of a built index.
// Keys lists every chunk name in write order; Data maps each key to its opaque payload.
type SearchIndexData struct {
	Keys []string          `json:"keys"`
	Data map[string]string `json:"data"`
}

// NewSearchIndexData returns an empty artifact ready to receive chunks.
func NewSearchIndexData() *SearchIndexData {
	return &SearchIndexData{
		Keys: make([]string, 0),
		Data: make(map[string]string),
	}
}

// Put records a chunk, appending key to Keys the first time it is seen.
func (d *SearchIndexData) Put(key, payload string) {
	if d.Data == nil {
		d.Data = make(map[string]string)
	}
	if _, exists := d.Data[key]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Data[key] = payload
}

// Valid reports whether the artifact is complete enough to be trusted.
// A nil artifact, empty key list, missing data map or a key without payload is invalid.
func (d *SearchIndexData) Valid() bool {
	if d == nil || len(d.Keys) == 0 || d.Data == nil {
		return false
	}
	for _, key := range d.Keys {
		if _, ok := d.Data[key]; !ok {
			return false
		}
	}
	return true
}
