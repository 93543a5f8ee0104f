package config

import (
	"testing"

	"github.com/gcbaptista/go-site-index/model"
)

func TestApplyDefaults(t *testing.T) {
	settings := IndexSettings{}
	settings.ApplyDefaults()

	if len(settings.SearchableFields) != 5 || settings.SearchableFields[0] != model.FieldTitle {
		t.Errorf("Expected default searchable fields, got %v", settings.SearchableFields)
	}
	if settings.PrefixSearchEnabled(model.FieldContent) {
		t.Error("Expected prefix search disabled for content by default")
	}
	if !settings.PrefixSearchEnabled(model.FieldTitle) {
		t.Error("Expected prefix search enabled for title by default")
	}
	if settings.DefaultLimit != DefaultSearchLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultSearchLimit, settings.DefaultLimit)
	}
	if settings.MaxLimit != MaxSearchLimit {
		t.Errorf("Expected max limit %d, got %d", MaxSearchLimit, settings.MaxLimit)
	}
	if settings.StoreChunkSize != DefaultStoreChunkSize {
		t.Errorf("Expected store chunk size %d, got %d", DefaultStoreChunkSize, settings.StoreChunkSize)
	}
	if settings.MinWordSizeFor1Typo != 4 || settings.MinWordSizeFor2Typos != 7 {
		t.Errorf("Unexpected typo defaults: %d/%d", settings.MinWordSizeFor1Typo, settings.MinWordSizeFor2Typos)
	}
}

func TestApplyDefaults_KeepsExplicitEmptyPrefixList(t *testing.T) {
	settings := IndexSettings{FieldsWithoutPrefixSearch: []string{}}
	settings.ApplyDefaults()

	if !settings.PrefixSearchEnabled(model.FieldContent) {
		t.Error("Expected explicit empty list to enable prefix search everywhere")
	}
}

func TestApplyDefaults_FixesTypoSizes(t *testing.T) {
	settings := IndexSettings{MinWordSizeFor1Typo: 8, MinWordSizeFor2Typos: 5}
	settings.ApplyDefaults()

	if settings.MinWordSizeFor2Typos != 9 {
		t.Errorf("Expected MinWordSizeFor2Typos to be raised to 9, got %d", settings.MinWordSizeFor2Typos)
	}
}

func TestValidateFieldNames(t *testing.T) {
	tests := []struct {
		name           string
		settings       IndexSettings
		expectedErrors int
	}{
		{
			name:           "defaults are valid",
			settings:       DefaultIndexSettings(),
			expectedErrors: 0,
		},
		{
			name: "unknown searchable field",
			settings: IndexSettings{
				SearchableFields: []string{"title", "popularity"},
			},
			expectedErrors: 1,
		},
		{
			name: "duplicate searchable field",
			settings: IndexSettings{
				SearchableFields: []string{"title", "title"},
			},
			expectedErrors: 1,
		},
		{
			name: "prefix exclusion must be searchable",
			settings: IndexSettings{
				SearchableFields:          []string{"title"},
				FieldsWithoutPrefixSearch: []string{"content"},
			},
			expectedErrors: 1,
		},
		{
			name: "default limit above max limit",
			settings: IndexSettings{
				SearchableFields: []string{"title"},
				DefaultLimit:     50,
				MaxLimit:         20,
			},
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := tt.settings.ValidateFieldNames()
			if len(errors) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(errors), errors)
			}
		})
	}
}
