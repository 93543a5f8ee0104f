package filter

import (
	"context"
	"strings"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/pathutil"
	"github.com/gcbaptista/go-site-index/model"
)

// commonExcludes are error pages and framework asset trees that never belong in a site index.
var commonExcludes = []string{
	"/404",
	"/400",
	"/500",
	"/_not-found",
	"/_error",
	"/_global-error",
	"/_next/**",
	"/_astro/**",
}

// CommonFilter drops well-known error pages and framework-internal paths.
type CommonFilter struct {
	patterns []*pathutil.Pattern
}

// NewCommonFilter creates the filter.
func NewCommonFilter() *CommonFilter {
	patterns := make([]*pathutil.Pattern, 0, len(commonExcludes))
	for _, source := range commonExcludes {
		p, err := pathutil.CompilePattern(source)
		if err != nil {
			logger.Error("invalid built-in pattern %s: %v", source, err)
			continue
		}
		patterns = append(patterns, p)
	}
	return &CommonFilter{patterns: patterns}
}

// Name implements services.Filter.
func (f *CommonFilter) Name() string {
	return "common"
}

// Filter implements services.Filter. Paths match with or without a trailing slash.
func (f *CommonFilter) Filter(_ context.Context, candidates []model.PageCandidate) []model.PageCandidate {
	return keep(candidates, func(c model.PageCandidate) bool {
		return matchingPattern(f.patterns, c.Path) == nil
	})
}

// matchingPattern returns the first pattern matching p, retrying without a trailing slash
// so that directory-style routes ("/admin/") match like their bare form.
func matchingPattern(patterns []*pathutil.Pattern, p string) *pathutil.Pattern {
	trimmed := strings.TrimSuffix(p, "/")
	for _, pattern := range patterns {
		if pattern.Match(p) || (trimmed != "" && trimmed != p && pattern.Match(trimmed)) {
			return pattern
		}
	}
	return nil
}
