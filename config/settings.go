// Package config provides configuration structures for the site index.
// It defines search engine settings, filter settings and the build configuration
// consumed by the command line.
package config

import (
	"strings"

	"github.com/gcbaptista/go-site-index/model"
)

const (
	DefaultSearchLimit    = 10
	MaxSearchLimit        = 100
	DefaultStoreChunkSize = 200
)

// DefaultSearchableFields lists the indexed document fields in priority order.
var DefaultSearchableFields = []string{
	model.FieldTitle,
	model.FieldDescription,
	model.FieldContent,
	model.FieldAuthor,
	model.FieldKeywords,
}

// IndexSettings configures a search engine instance.
//
// IMPORTANT: SearchableFields order matters for result order!
// Search results are merged field by field: every hit from the first field comes before
// hits that only matched a later field.
type IndexSettings struct {
	SearchableFields          []string `json:"searchable_fields" mapstructure:"searchable_fields"`                       // Fields searched, in priority order
	FieldsWithoutPrefixSearch []string `json:"fields_without_prefix_search" mapstructure:"fields_without_prefix_search"` // Fields indexed as whole words only. Must be in SearchableFields.
	MinWordSizeFor1Typo       int      `json:"min_word_size_for_1_typo" mapstructure:"min_word_size_for_1_typo"`         // Minimum word length to allow 1 typo in suggest mode
	MinWordSizeFor2Typos      int      `json:"min_word_size_for_2_typos" mapstructure:"min_word_size_for_2_typos"`       // Minimum word length to allow 2 typos in suggest mode
	DefaultLimit              int      `json:"default_limit" mapstructure:"default_limit"`                               // Results returned when a query sets no limit
	MaxLimit                  int      `json:"max_limit" mapstructure:"max_limit"`                                       // Upper bound on any requested limit
	StoreChunkSize            int      `json:"store_chunk_size" mapstructure:"store_chunk_size"`                         // Documents per exported store chunk
}

// DefaultIndexSettings returns settings with every default applied.
func DefaultIndexSettings() IndexSettings {
	settings := IndexSettings{}
	settings.ApplyDefaults()
	return settings
}

// ValidateFieldNames validates field names for basic requirements.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("searchable_fields", settings.SearchableFields)...)
	conflicts = append(conflicts, checkDuplicates("fields_without_prefix_search", settings.FieldsWithoutPrefixSearch)...)
	conflicts = append(conflicts, settings.validateFieldReferences()...)

	allFields := make([]string, 0)
	allFields = append(allFields, settings.SearchableFields...)
	allFields = append(allFields, settings.FieldsWithoutPrefixSearch...)
	for _, field := range allFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// validateFieldReferences validates that field references across configurations are valid
func (settings *IndexSettings) validateFieldReferences() []string {
	var errors []string

	known := make(map[string]bool)
	for _, field := range DefaultSearchableFields {
		known[field] = true
	}

	searchableFieldsSet := make(map[string]bool)
	for _, field := range settings.SearchableFields {
		searchableFieldsSet[field] = true
		if !known[field] {
			errors = append(errors, "Field '"+field+"' in searchable_fields is not an indexed document field")
		}
	}

	for _, field := range settings.FieldsWithoutPrefixSearch {
		if !searchableFieldsSet[field] {
			errors = append(errors, "Field '"+field+"' in fields_without_prefix_search is not in searchable_fields")
		}
	}

	if settings.MaxLimit > 0 && settings.DefaultLimit > settings.MaxLimit {
		errors = append(errors, "default_limit cannot exceed max_limit")
	}

	return errors
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	if settings.MinWordSizeFor1Typo == 0 {
		settings.MinWordSizeFor1Typo = 4
	}
	if settings.MinWordSizeFor2Typos == 0 {
		settings.MinWordSizeFor2Typos = 7
	}

	// Ensure MinWordSizeFor2Typos is at least as large as MinWordSizeFor1Typo
	if settings.MinWordSizeFor2Typos < settings.MinWordSizeFor1Typo {
		settings.MinWordSizeFor2Typos = settings.MinWordSizeFor1Typo + 1
	}

	if len(settings.SearchableFields) == 0 {
		settings.SearchableFields = append([]string(nil), DefaultSearchableFields...)
	}
	if settings.FieldsWithoutPrefixSearch == nil {
		// Full page text is indexed as whole words only.
		settings.FieldsWithoutPrefixSearch = []string{model.FieldContent}
	}
	if settings.DefaultLimit <= 0 {
		settings.DefaultLimit = DefaultSearchLimit
	}
	if settings.MaxLimit <= 0 {
		settings.MaxLimit = MaxSearchLimit
	}
	if settings.StoreChunkSize <= 0 {
		settings.StoreChunkSize = DefaultStoreChunkSize
	}
}

// PrefixSearchEnabled reports whether prefix n-grams are indexed for field.
func (settings *IndexSettings) PrefixSearchEnabled(field string) bool {
	for _, noPrefixField := range settings.FieldsWithoutPrefixSearch {
		if field == noPrefixField {
			return false
		}
	}
	return true
}
