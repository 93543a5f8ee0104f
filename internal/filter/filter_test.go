package filter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/testutil"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

func candidates(paths ...string) []model.PageCandidate {
	out := make([]model.PageCandidate, len(paths))
	for i, p := range paths {
		out[i] = model.PageCandidate{Path: p, Content: "<p>" + p + "</p>", Source: model.SourceFile}
	}
	return out
}

func TestCommonFilter(t *testing.T) {
	in := candidates("/", "/404", "/404/", "/500", "/_not-found", "/_error", "/_global-error",
		"/_next/static/chunk", "/_astro/x.css", "/about", "/errors/404")

	out := NewCommonFilter().Filter(context.Background(), in)

	assert.Equal(t, []string{"/", "/about", "/errors/404"}, testutil.CandidatePaths(out))
	assert.Len(t, in, 11, "input is not mutated")
	assert.Equal(t, "/404", in[1].Path)
}

func TestPrerenderPathFilter(t *testing.T) {
	in := candidates(
		"/blog/[slug]",
		"/blog/hello",
		"/_next/data/x",
		"/_vercel/insights",
		"/__nextjs_original-stack-frame",
		"/api/users",
		"/page.rsc",
		"/page.prefetch.rsc",
		"/page.meta",
		"/page.body",
		"/page.segments/child",
		"/page/__PAGE__.segment.rsc",
		"/logo.PNG",
		"/manifest.webmanifest",
		"/feed.xml",
		"/robots.txt",
		"/docs/getting-started",
	)

	out := NewPrerenderPathFilter().Filter(context.Background(), in)

	assert.Equal(t, []string{"/blog/hello", "/robots.txt", "/docs/getting-started"}, testutil.CandidatePaths(out))
}

func TestExcludePatternFilter(t *testing.T) {
	f, err := NewExcludePatternFilter([]string{"admin", "/blog/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/admin", "/blog/**"}, f.Patterns())

	out := f.Filter(context.Background(), candidates("/admin", "/admin/", "/admin/users", "/blog/post-1", "/blog/2024/x", "/blog", "/docs", "/docs/"))

	assert.Equal(t, []string{"/admin/users", "/blog", "/docs", "/docs/"}, testutil.CandidatePaths(out))
}

func TestRobotsTxtFilter_InlineCandidate(t *testing.T) {
	in := append(candidates("/", "/private/a", "/public"), model.PageCandidate{
		Path:    RobotsPath,
		Content: "User-agent: *\nDisallow: /private/\n",
		Source:  model.SourcePrerender,
	})

	out := NewRobotsTxtFilter(t.TempDir(), "").Filter(context.Background(), in)

	assert.Equal(t, []string{"/", "/public"}, testutil.CandidatePaths(out))
}

func TestRobotsTxtFilter_CandidateFile(t *testing.T) {
	project := t.TempDir()
	testutil.WriteFiles(t, project, map[string]string{"out/robots.txt": "User-agent: *\nDisallow: /secret\n"})

	in := append(candidates("/secret", "/open"), model.PageCandidate{
		Path:     RobotsPath,
		FilePath: filepath.Join(project, "out", "robots.txt"),
	})
	out := NewRobotsTxtFilter(project, "").Filter(context.Background(), in)

	assert.Equal(t, []string{"/open"}, testutil.CandidatePaths(out))
}

func TestRobotsTxtFilter_CustomPathBeforeConventional(t *testing.T) {
	project := t.TempDir()
	testutil.WriteFiles(t, project, map[string]string{
		"config/robots.txt": "User-agent: *\nDisallow: /custom\n",
		"public/robots.txt": "User-agent: *\nDisallow: /conventional\n",
	})

	out := NewRobotsTxtFilter(project, "config/robots.txt").Filter(context.Background(), candidates("/custom", "/conventional"))
	assert.Equal(t, []string{"/conventional"}, testutil.CandidatePaths(out))

	out = NewRobotsTxtFilter(project, "").Filter(context.Background(), candidates("/custom", "/conventional"))
	assert.Equal(t, []string{"/custom"}, testutil.CandidatePaths(out))
}

func TestRobotsTxtFilter_NoRulesetPassesEverything(t *testing.T) {
	in := append(candidates("/a", "/b"), model.PageCandidate{Path: RobotsPath, FilePath: "/does/not/exist"})

	out := NewRobotsTxtFilter(t.TempDir(), "missing.txt").Filter(context.Background(), in)

	assert.Equal(t, []string{"/a", "/b"}, testutil.CandidatePaths(out), "robots.txt itself is always removed")
}

func TestRobotsTxtFilter_OtherAgentsIgnored(t *testing.T) {
	in := append(candidates("/a"), model.PageCandidate{
		Path:    RobotsPath,
		Content: "User-agent: Googlebot\nDisallow: /\n",
	})

	out := NewRobotsTxtFilter(t.TempDir(), "").Filter(context.Background(), in)
	assert.Equal(t, []string{"/a"}, testutil.CandidatePaths(out))
}

func TestRobotsTxtFilter_RulesetCachedAfterFirstCall(t *testing.T) {
	f := NewRobotsTxtFilter(t.TempDir(), "")
	first := append(candidates("/x"), model.PageCandidate{Path: RobotsPath, Content: "User-agent: *\nDisallow: /x\n"})
	assert.Empty(t, f.Filter(context.Background(), first))

	// No robots candidate this time; the cached ruleset still applies.
	assert.Empty(t, f.Filter(context.Background(), candidates("/x")))
	assert.Equal(t, []string{"/y"}, testutil.CandidatePaths(f.Filter(context.Background(), candidates("/y"))))
}

type recordingFilter struct {
	name  string
	drop  string
	calls *[]string
}

func (r recordingFilter) Name() string { return r.name }

func (r recordingFilter) Filter(_ context.Context, in []model.PageCandidate) []model.PageCandidate {
	*r.calls = append(*r.calls, r.name)
	return keep(in, func(c model.PageCandidate) bool { return c.Path != r.drop })
}

func TestChain_AppliesInOrderAndStopsWhenEmpty(t *testing.T) {
	var calls []string
	chain := NewChain().Append(
		recordingFilter{name: "first", drop: "/a", calls: &calls},
		recordingFilter{name: "second", drop: "/b", calls: &calls},
		recordingFilter{name: "third", calls: &calls},
	)

	assert.Equal(t, []string{"first", "second", "third"}, chain.Names())
	assert.Equal(t, 3, chain.Len())

	out := chain.Apply(context.Background(), candidates("/a", "/b"))
	assert.Empty(t, out)
	assert.Equal(t, []string{"first", "second"}, calls)
}

type fakeSource struct {
	dir  string
	kind model.PageSource
}

func (s fakeSource) ProjectDir() string     { return s.dir }
func (s fakeSource) Kind() model.PageSource { return s.kind }
func (s fakeSource) Discover(context.Context) []model.PageCandidate {
	return []model.PageCandidate{}
}

func TestDefaultChain(t *testing.T) {
	fileOnly := []services.Source{fakeSource{dir: "/p", kind: model.SourceFile}}
	mixed := []services.Source{
		fakeSource{dir: "/p", kind: model.SourceFile},
		fakeSource{dir: "/p", kind: model.SourcePrerender},
		fakeSource{dir: "/q", kind: model.SourcePrerender},
		fakeSource{dir: "", kind: model.SourceFile},
	}

	tests := []struct {
		name     string
		settings config.FilterSettings
		sources  []services.Source
		want     []string
	}{
		{"defaults", config.FilterSettings{}, fileOnly, []string{"common", "robots-txt"}},
		{
			"all filters with one robots filter per project",
			config.FilterSettings{Exclude: config.ParseExclude("/admin/**")},
			mixed,
			[]string{"common", "prerender-path", "exclude-pattern", "robots-txt", "robots-txt"},
		},
		{
			"explicit empty exclude disables common filter",
			config.FilterSettings{Exclude: config.ParseExclude([]string{}), RobotsTxt: config.ParseRobotsTxt(false)},
			fileOnly,
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := DefaultChain(tt.settings, tt.sources)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chain.Names())
		})
	}
}
