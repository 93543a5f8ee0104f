package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors())
	assert.Equal(t, []ValidationError{{Field: "field1", Message: "error message"}}, result.Errors)
}

func TestValidateSearchRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        SearchRequest
		wantQuery  string
		wantFields []string
	}{
		{"valid query", SearchRequest{Query: "install", Limit: 5}, "install", nil},
		{"query is trimmed", SearchRequest{Query: "  install  "}, "install", nil},
		{"missing query", SearchRequest{}, "", []string{"q"}},
		{"whitespace query", SearchRequest{Query: "   "}, "", []string{"q"}},
		{"negative limit and offset", SearchRequest{Query: "x", Limit: -1, Offset: -2}, "x", []string{"limit", "offset"}},
		{"large limit is clamped later", SearchRequest{Query: "x", Limit: 5000}, "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			result := ValidateSearchRequest(&req)

			var fields []string
			for _, e := range result.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, tt.wantQuery, req.Query)
		})
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantValid bool
	}{
		{"root", "/", true},
		{"nested", "/guides/install/", true},
		{"empty", "", false},
		{"whitespace", " /a", false},
		{"relative", "about", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDocumentPath(tt.path)
			assert.Equal(t, tt.wantValid, !result.HasErrors())
		})
	}
}
