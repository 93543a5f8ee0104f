package config

import (
	"fmt"
	"strings"
)

// ExcludeOption is the user-supplied exclude configuration.
// Set distinguishes an explicitly empty list from an absent one.
type ExcludeOption struct {
	Patterns []string
	Set      bool
}

// CommonFilterEnabled reports whether the built-in error/framework path filter runs.
// It is skipped only when exclude is present and empty.
func (o ExcludeOption) CommonFilterEnabled() bool {
	return !o.Set || len(o.Patterns) > 0
}

// RobotsOption is the robots.txt configuration.
// Disabled turns the filter off; Path names a custom robots.txt; otherwise conventional
// locations are probed.
type RobotsOption struct {
	Disabled bool
	Path     string
}

// FilterSettings groups the options that shape the default filter chain.
type FilterSettings struct {
	Exclude   ExcludeOption
	RobotsTxt RobotsOption
}

// ParseExclude accepts nil, a comma-separated string, []string or []any.
func ParseExclude(value any) ExcludeOption {
	switch v := value.(type) {
	case nil:
		return ExcludeOption{}
	case string:
		return ExcludeOption{Patterns: splitPatterns(strings.Split(v, ",")), Set: true}
	case []string:
		return ExcludeOption{Patterns: splitPatterns(v), Set: true}
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return ExcludeOption{Patterns: splitPatterns(parts), Set: true}
	default:
		return ExcludeOption{}
	}
}

func splitPatterns(parts []string) []string {
	patterns := make([]string, 0, len(parts))
	for _, part := range parts {
		// Entries of a list may themselves be comma-separated.
		for _, p := range strings.Split(part, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// ParseRobotsTxt accepts false (disable), a non-empty path string, or anything else (auto-discover).
func ParseRobotsTxt(value any) RobotsOption {
	switch v := value.(type) {
	case bool:
		return RobotsOption{Disabled: !v}
	case string:
		trimmed := strings.TrimSpace(v)
		switch strings.ToLower(trimmed) {
		case "false":
			return RobotsOption{Disabled: true}
		case "", "true":
			return RobotsOption{}
		}
		return RobotsOption{Path: trimmed}
	default:
		return RobotsOption{}
	}
}
