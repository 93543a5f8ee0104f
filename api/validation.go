// Package api provides validation utilities for API request handling.
package api

import (
	"strings"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateSearchRequest checks a query and trims it in place.
// Limits above the maximum are not an error; the engine clamps them.
func ValidateSearchRequest(req *SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		result.AddError("q", "Query is required")
	}
	if req.Limit < 0 {
		result.AddError("limit", "Limit cannot be negative")
	}
	if req.Offset < 0 {
		result.AddError("offset", "Offset cannot be negative")
	}

	return result
}

// ValidateDocumentPath validates a document path taken from the URL
func ValidateDocumentPath(path string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if path == "" {
		result.AddError("path", "Document path is required")
		return result
	}
	if strings.TrimSpace(path) != path {
		result.AddError("path", "Document path cannot have leading or trailing whitespace")
		return result
	}
	if !strings.HasPrefix(path, "/") {
		result.AddError("path", "Document path must start with '/'")
	}

	return result
}
