package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExclude(t *testing.T) {
	tests := []struct {
		name         string
		value        any
		wantPatterns []string
		wantSet      bool
		wantCommon   bool
	}{
		{"absent", nil, nil, false, true},
		{"comma string", "/admin, /blog/** ,", []string{"/admin", "/blog/**"}, true, true},
		{"string slice", []string{"/a", " /b "}, []string{"/a", "/b"}, true, true},
		{"any slice", []any{"/a", "/b,/c"}, []string{"/a", "/b", "/c"}, true, true},
		{"explicit empty slice", []string{}, []string{}, true, false},
		{"explicit empty string", "", []string{}, true, false},
		{"unsupported type", 42, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExclude(tt.value)
			if tt.wantPatterns == nil {
				assert.Empty(t, got.Patterns)
			} else {
				assert.Equal(t, tt.wantPatterns, got.Patterns)
			}
			assert.Equal(t, tt.wantSet, got.Set)
			assert.Equal(t, tt.wantCommon, got.CommonFilterEnabled())
		})
	}
}

func TestParseRobotsTxt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  RobotsOption
	}{
		{"absent", nil, RobotsOption{}},
		{"false disables", false, RobotsOption{Disabled: true}},
		{"true auto discovers", true, RobotsOption{}},
		{"string false disables", "false", RobotsOption{Disabled: true}},
		{"custom path", "config/robots.txt", RobotsOption{Path: "config/robots.txt"}},
		{"empty string auto discovers", " ", RobotsOption{}},
		{"other type auto discovers", 1, RobotsOption{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRobotsTxt(tt.value))
		})
	}
}
