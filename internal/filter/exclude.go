package filter

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/pathutil"
	"github.com/gcbaptista/go-site-index/model"
)

// ExcludePatternFilter drops paths matching any user-supplied wildcard pattern.
type ExcludePatternFilter struct {
	patterns []*pathutil.Pattern
}

// NewExcludePatternFilter compiles patterns. An invalid pattern is a ConfigurationError.
func NewExcludePatternFilter(patterns []string) (*ExcludePatternFilter, error) {
	compiled := make([]*pathutil.Pattern, 0, len(patterns))
	for _, source := range patterns {
		p, err := pathutil.CompilePattern(source)
		if err != nil {
			return nil, errors.NewConfigurationError("exclude", fmt.Sprintf("%v", err))
		}
		compiled = append(compiled, p)
	}
	return &ExcludePatternFilter{patterns: compiled}, nil
}

// Name implements services.Filter.
func (f *ExcludePatternFilter) Name() string {
	return "exclude-pattern"
}

// Patterns returns the normalized pattern sources.
func (f *ExcludePatternFilter) Patterns() []string {
	sources := make([]string, len(f.patterns))
	for i, p := range f.patterns {
		sources[i] = p.String()
	}
	return sources
}

// Filter implements services.Filter. Paths match with or without a trailing slash.
func (f *ExcludePatternFilter) Filter(_ context.Context, candidates []model.PageCandidate) []model.PageCandidate {
	return keep(candidates, func(c model.PageCandidate) bool {
		if p := matchingPattern(f.patterns, c.Path); p != nil {
			logger.Debug("excluding %s: matches %s", c.Path, p)
			return false
		}
		return true
	})
}
