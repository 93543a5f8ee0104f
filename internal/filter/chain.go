// Package filter narrows discovered page candidates before extraction.
package filter

import (
	"context"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// Chain applies filters strictly in order; a candidate dropped by one filter is never seen by the next.
type Chain struct {
	filters []services.Filter
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{filters: make([]services.Filter, 0)}
}

// Append adds filters to the end of the chain.
func (c *Chain) Append(filters ...services.Filter) *Chain {
	c.filters = append(c.filters, filters...)
	return c
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Names returns the filter names in application order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.filters))
	for i, f := range c.filters {
		names[i] = f.Name()
	}
	return names
}

// Apply threads candidates through every filter, stopping early once nothing is left.
func (c *Chain) Apply(ctx context.Context, candidates []model.PageCandidate) []model.PageCandidate {
	current := candidates
	for _, f := range c.filters {
		if len(current) == 0 {
			break
		}
		before := len(current)
		current = f.Filter(ctx, current)
		logger.Debug("filter %s kept %d of %d pages", f.Name(), len(current), before)
	}
	return current
}

// DefaultChain builds the standard chain: common, prerender-path (when a prerender source is
// configured), exclude-pattern (when patterns are given) and one robots-txt filter per distinct
// source project directory (unless robots handling is disabled).
func DefaultChain(settings config.FilterSettings, sources []services.Source) (*Chain, error) {
	chain := NewChain()

	if settings.Exclude.CommonFilterEnabled() {
		chain.Append(NewCommonFilter())
	}

	for _, src := range sources {
		if src.Kind() == model.SourcePrerender {
			chain.Append(NewPrerenderPathFilter())
			break
		}
	}

	if len(settings.Exclude.Patterns) > 0 {
		excludeFilter, err := NewExcludePatternFilter(settings.Exclude.Patterns)
		if err != nil {
			return nil, err
		}
		chain.Append(excludeFilter)
	}

	if !settings.RobotsTxt.Disabled {
		seen := make(map[string]struct{})
		for _, src := range sources {
			dir := src.ProjectDir()
			if dir == "" {
				continue
			}
			if _, dup := seen[dir]; dup {
				continue
			}
			seen[dir] = struct{}{}
			chain.Append(NewRobotsTxtFilter(dir, settings.RobotsTxt.Path))
		}
	}

	return chain, nil
}

// keep returns the candidates for which keepFn is true, without touching the input slice.
func keep(candidates []model.PageCandidate, keepFn func(model.PageCandidate) bool) []model.PageCandidate {
	kept := make([]model.PageCandidate, 0, len(candidates))
	for _, c := range candidates {
		if keepFn(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
