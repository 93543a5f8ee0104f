package source

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/pathutil"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// PrerenderRoute describes one prerendered route and the file holding its rendered markup.
type PrerenderRoute struct {
	Pathname string             `json:"pathname"`
	Fallback *PrerenderFallback `json:"fallback,omitempty"`
}

// PrerenderFallback points at the rendered output of a route.
type PrerenderFallback struct {
	FilePath string `json:"filePath"`
}

// ParsePrerenderRoutes decodes the JSON array form of route descriptors.
func ParsePrerenderRoutes(raw string) ([]PrerenderRoute, error) {
	var routes []PrerenderRoute
	if err := json.Unmarshal([]byte(raw), &routes); err != nil {
		return nil, fmt.Errorf("failed to parse prerender routes: %w", err)
	}
	return routes, nil
}

// PrerenderSource turns prerender route descriptors into candidates.
type PrerenderSource struct {
	projectDir string
	routes     []PrerenderRoute
}

var _ services.Source = (*PrerenderSource)(nil)

// NewPrerenderSource creates a source over routes. Relative fallback paths resolve against projectDir.
func NewPrerenderSource(projectDir string, routes []PrerenderRoute) *PrerenderSource {
	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	return &PrerenderSource{projectDir: projectDir, routes: routes}
}

// NewPrerenderSourceFromJSON parses raw route descriptors. A parse failure is logged and
// leaves the source with no routes.
func NewPrerenderSourceFromJSON(projectDir, raw string) *PrerenderSource {
	routes, err := ParsePrerenderRoutes(raw)
	if err != nil {
		logger.Warn("%v", err)
		routes = nil
	}
	return NewPrerenderSource(projectDir, routes)
}

// ProjectDir returns the absolute project directory.
func (s *PrerenderSource) ProjectDir() string {
	return s.projectDir
}

// Kind implements services.Source.
func (s *PrerenderSource) Kind() model.PageSource {
	return model.SourcePrerender
}

// Discover returns one candidate per route whose fallback file exists.
func (s *PrerenderSource) Discover(ctx context.Context) []model.PageCandidate {
	candidates := make([]model.PageCandidate, 0, len(s.routes))
	seen := make(map[string]struct{}, len(s.routes))

	for _, route := range s.routes {
		if err := ctx.Err(); err != nil {
			logger.Warn("prerender discovery cancelled: %v", err)
			return []model.PageCandidate{}
		}

		if strings.TrimSpace(route.Pathname) == "" {
			logger.Debug("skipping prerender route without pathname")
			continue
		}
		path := pathutil.EnsureLeadingSlash(route.Pathname)

		if route.Fallback == nil || route.Fallback.FilePath == "" {
			logger.Debug("skipping prerender route %s: no fallback file", path)
			continue
		}
		file, ok := s.resolveFallback(route.Fallback.FilePath)
		if !ok {
			logger.Warn("skipping prerender route %s: fallback file %s not found", path, route.Fallback.FilePath)
			continue
		}

		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		candidates = append(candidates, model.PageCandidate{
			Path:     path,
			FilePath: file,
			Source:   model.SourcePrerender,
		})
	}

	logger.Debug("found %d prerendered pages", len(candidates))
	return candidates
}

// resolveFallback returns the file holding a route's markup. Some frameworks report a root
// index fallback as ".html" inside the route directory; "index.html" in the same directory is
// preferred, and the literal ".html" is used only when that does not exist.
func (s *PrerenderSource) resolveFallback(filePath string) (string, bool) {
	file := filePath
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.projectDir, filepath.FromSlash(file))
	}

	if strings.HasSuffix(filepath.ToSlash(file), "/.html") {
		rewritten := filepath.Join(filepath.Dir(file), "index.html")
		if isFile(rewritten) {
			return rewritten, true
		}
	}

	if isFile(file) {
		return file, true
	}
	return "", false
}
