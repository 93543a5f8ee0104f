package filter

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
)

// ConventionalRobotsLocations are checked, in order, relative to the project directory.
var ConventionalRobotsLocations = []string{
	"public/robots.txt",
	"static/robots.txt",
	"dist/robots.txt",
	"build/robots.txt",
	"out/robots.txt",
	".output/public/robots.txt",
	"robots.txt",
}

const wildcardAgent = "*"

// RobotsTxtFilter drops paths disallowed for the wildcard user agent.
// The ruleset is resolved on the first Filter call and reused afterwards.
type RobotsTxtFilter struct {
	projectDir string
	customPath string

	mu       sync.Mutex
	resolved bool
	robots   *robotstxt.RobotsData
}

// NewRobotsTxtFilter creates a filter for projectDir. customPath, when set, is checked after a
// robots.txt candidate and before the conventional locations.
func NewRobotsTxtFilter(projectDir, customPath string) *RobotsTxtFilter {
	return &RobotsTxtFilter{projectDir: projectDir, customPath: customPath}
}

// Name implements services.Filter.
func (f *RobotsTxtFilter) Name() string {
	return "robots-txt"
}

// Filter implements services.Filter. The robots.txt candidate itself is always dropped.
func (f *RobotsTxtFilter) Filter(_ context.Context, candidates []model.PageCandidate) []model.PageCandidate {
	robots := f.ruleset(candidates)

	return keep(candidates, func(c model.PageCandidate) bool {
		if c.Path == RobotsPath {
			return false
		}
		if robots != nil && !robots.TestAgent(c.Path, wildcardAgent) {
			logger.Debug("excluding %s: disallowed by robots.txt", c.Path)
			return false
		}
		return true
	})
}

func (f *RobotsTxtFilter) ruleset(candidates []model.PageCandidate) *robotstxt.RobotsData {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.resolved {
		f.robots = f.resolve(candidates)
		f.resolved = true
	}
	return f.robots
}

func (f *RobotsTxtFilter) resolve(candidates []model.PageCandidate) *robotstxt.RobotsData {
	for _, c := range candidates {
		if c.Path != RobotsPath {
			continue
		}
		if c.HasInlineContent() {
			return parseRobots(c.Content, "robots.txt candidate")
		}
		if content, ok := readRobots(c.FilePath); ok {
			return parseRobots(content, c.FilePath)
		}
	}

	if f.customPath != "" {
		location := f.customPath
		if !filepath.IsAbs(location) {
			location = filepath.Join(f.projectDir, location)
		}
		if content, ok := readRobots(location); ok {
			return parseRobots(content, location)
		}
		logger.Warn("configured robots.txt %s could not be read", location)
	}

	for _, rel := range ConventionalRobotsLocations {
		location := filepath.Join(f.projectDir, filepath.FromSlash(rel))
		if content, ok := readRobots(location); ok {
			return parseRobots(content, location)
		}
	}

	logger.Debug("no robots.txt found for %s", f.projectDir)
	return nil
}

func readRobots(location string) (string, bool) {
	if location == "" {
		return "", false
	}
	raw, err := os.ReadFile(location) // #nosec G304 -- location comes from build configuration
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read %s: %v", location, err)
		}
		return "", false
	}
	return string(raw), true
}

// parseRobots returns nil, meaning no restriction, when content cannot be parsed.
func parseRobots(content, location string) *robotstxt.RobotsData {
	robots, err := robotstxt.FromString(content)
	if err != nil {
		logger.Warn("ignoring unparseable robots.txt from %s: %v", location, err)
		return nil
	}
	logger.Debug("using robots.txt from %s", location)
	return robots
}
