// Package source discovers candidate pages from static build output and prerender routes.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/pathutil"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// ConventionalOutputDirs are probed, in order, when no source directory is configured.
var ConventionalOutputDirs = []string{
	".output/public",
	"dist",
	"build",
	"out",
	".next",
	"_site",
	"public",
}

// markupPatterns select the files read from a build output directory.
var markupPatterns = []string{"**/*.html", "**/*.htm"}

// FileSource discovers HTML files in a static build output directory.
type FileSource struct {
	projectDir string
	root       string
}

var _ services.Source = (*FileSource)(nil)

// NewFileSource resolves the output directory of projectDir. An explicit sourceDir is resolved
// against projectDir unless absolute; an empty one triggers probing of ConventionalOutputDirs.
// A ConfigurationError is returned when no directory can be resolved.
func NewFileSource(projectDir, sourceDir string) (*FileSource, error) {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, errors.NewConfigurationError("project_dir", fmt.Sprintf("cannot resolve %q: %v", projectDir, err))
	}

	if sourceDir != "" {
		root := sourceDir
		if !filepath.IsAbs(root) {
			root = filepath.Join(absProject, root)
		}
		if !isDir(root) {
			return nil, errors.NewConfigurationError("source_dir", fmt.Sprintf("directory %s does not exist", root))
		}
		return &FileSource{projectDir: absProject, root: root}, nil
	}

	for _, candidate := range ConventionalOutputDirs {
		root := filepath.Join(absProject, filepath.FromSlash(candidate))
		if isDir(root) {
			logger.Debug("using build output directory %s", root)
			return &FileSource{projectDir: absProject, root: root}, nil
		}
	}

	return nil, errors.NewConfigurationError("source_dir", fmt.Sprintf(
		"no build output directory found in %s (looked for %s)", absProject, strings.Join(ConventionalOutputDirs, ", ")))
}

// ProjectDir returns the absolute project directory.
func (s *FileSource) ProjectDir() string {
	return s.projectDir
}

// Root returns the resolved build output directory.
func (s *FileSource) Root() string {
	return s.root
}

// Kind implements services.Source.
func (s *FileSource) Kind() model.PageSource {
	return model.SourceFile
}

// Discover globs markup files under the output directory and maps each to its pathname.
// When two files normalize to the same pathname the lexically first one wins.
func (s *FileSource) Discover(ctx context.Context) []model.PageCandidate {
	fsys := os.DirFS(s.root)

	matches := make([]string, 0)
	for _, pattern := range markupPatterns {
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			logger.Warn("failed to scan %s for %s: %v", s.root, pattern, err)
			return []model.PageCandidate{}
		}
		matches = append(matches, found...)
	}
	sort.Strings(matches)

	candidates := make([]model.PageCandidate, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			logger.Warn("discovery in %s cancelled: %v", s.root, err)
			return []model.PageCandidate{}
		}

		path := pathutil.NormalizePath(rel)
		if first, dup := seen[path]; dup {
			logger.Debug("skipping %s: pathname %s already provided by %s", rel, path, first)
			continue
		}
		seen[path] = rel

		candidates = append(candidates, model.PageCandidate{
			Path:     path,
			FilePath: filepath.Join(s.root, filepath.FromSlash(rel)),
			Source:   model.SourceFile,
		})
	}

	logger.Debug("found %d pages in %s", len(candidates), s.root)
	return candidates
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
