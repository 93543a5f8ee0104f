package filter

import (
	"context"
	"path"
	"strings"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
)

// RobotsPath is the pathname of a site's robots.txt.
const RobotsPath = "/robots.txt"

var (
	internalRoutePrefixes = []string{"/_next/", "/_vercel/", "/__nextjs", "/api/"}

	// Server component payloads and route metadata emitted next to prerendered pages.
	payloadSuffixes = []string{".rsc", ".prefetch.rsc", ".meta", ".body"}

	staticAssetExtensions = map[string]struct{}{
		// images
		".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".avif": {}, ".ico": {}, ".bmp": {},
		// fonts
		".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".eot": {},
		// styles and scripts
		".css": {}, ".js": {}, ".mjs": {}, ".cjs": {}, ".map": {},
		// data and media
		".json": {}, ".xml": {}, ".txt": {}, ".webmanifest": {}, ".pdf": {}, ".mp3": {}, ".mp4": {}, ".webm": {},
	}
)

// PrerenderPathFilter drops prerender routes that are not pages: unresolved dynamic templates,
// internal routes, component payloads, segment artifacts and static assets.
type PrerenderPathFilter struct{}

// NewPrerenderPathFilter creates the filter.
func NewPrerenderPathFilter() *PrerenderPathFilter {
	return &PrerenderPathFilter{}
}

// Name implements services.Filter.
func (f *PrerenderPathFilter) Name() string {
	return "prerender-path"
}

// Filter implements services.Filter. The robots.txt candidate is kept for the robots filter.
func (f *PrerenderPathFilter) Filter(_ context.Context, candidates []model.PageCandidate) []model.PageCandidate {
	return keep(candidates, func(c model.PageCandidate) bool {
		if reason := excludedPrerenderPath(c.Path); reason != "" {
			logger.Debug("excluding %s: %s", c.Path, reason)
			return false
		}
		return true
	})
}

// excludedPrerenderPath returns why p is not a page, or "" when it is.
func excludedPrerenderPath(p string) string {
	if p == RobotsPath {
		return ""
	}
	if strings.Contains(p, "[") && strings.Contains(p, "]") {
		return "dynamic route template"
	}
	for _, prefix := range internalRoutePrefixes {
		if strings.HasPrefix(p, prefix) {
			return "internal route"
		}
	}
	lower := strings.ToLower(p)
	for _, suffix := range payloadSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "component payload"
		}
	}
	if strings.Contains(lower, ".segments/") || strings.HasSuffix(lower, ".segment.rsc") {
		return "segment artifact"
	}
	if _, asset := staticAssetExtensions[path.Ext(lower)]; asset {
		return "static asset"
	}
	return ""
}
