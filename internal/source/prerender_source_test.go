package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/internal/testutil"
	"github.com/gcbaptista/go-site-index/model"
)

func TestParsePrerenderRoutes(t *testing.T) {
	routes, err := ParsePrerenderRoutes(`[{"pathname":"/a","fallback":{"filePath":"a.html"}},{"pathname":"/b"}]`)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "a.html", routes[0].Fallback.FilePath)
	assert.Nil(t, routes[1].Fallback)

	_, err = ParsePrerenderRoutes(`{not json`)
	assert.Error(t, err)
}

func TestPrerenderSource_Discover(t *testing.T) {
	project := t.TempDir()
	testutil.WriteFiles(t, project, map[string]string{
		"prerender/blog.html":       "blog",
		"prerender/root/index.html": "rewritten root",
		"prerender/legacy/.html":    "literal dot html",
		"prerender/both/.html":      "ignored",
		"prerender/both/index.html": "preferred",
	})

	src := NewPrerenderSource(project, []PrerenderRoute{
		{Pathname: "blog", Fallback: &PrerenderFallback{FilePath: "prerender/blog.html"}},
		{Pathname: "/", Fallback: &PrerenderFallback{FilePath: "prerender/root/.html"}},
		{Pathname: "/legacy", Fallback: &PrerenderFallback{FilePath: "prerender/legacy/.html"}},
		{Pathname: "/both", Fallback: &PrerenderFallback{FilePath: filepath.Join(project, "prerender/both/.html")}},
		{Pathname: "/missing", Fallback: &PrerenderFallback{FilePath: "prerender/missing.html"}},
		{Pathname: "/no-fallback"},
		{Pathname: "/blog", Fallback: &PrerenderFallback{FilePath: "prerender/root/index.html"}},
	})

	candidates := src.Discover(context.Background())
	require.Equal(t, []string{"/blog", "/", "/legacy", "/both"}, testutil.CandidatePaths(candidates))

	assert.Equal(t, filepath.Join(project, "prerender", "blog.html"), candidates[0].FilePath)
	assert.Equal(t, filepath.Join(project, "prerender", "root", "index.html"), candidates[1].FilePath)
	assert.Equal(t, filepath.Join(project, "prerender", "legacy", ".html"), candidates[2].FilePath)
	assert.Equal(t, filepath.Join(project, "prerender", "both", "index.html"), candidates[3].FilePath)
	for _, c := range candidates {
		assert.Equal(t, model.SourcePrerender, c.Source)
	}
	assert.Equal(t, model.SourcePrerender, src.Kind())
	assert.Equal(t, project, src.ProjectDir())
}

func TestNewPrerenderSourceFromJSON(t *testing.T) {
	project := t.TempDir()
	testutil.WriteFiles(t, project, map[string]string{"p/a.html": "a"})

	src := NewPrerenderSourceFromJSON(project, `[{"pathname":"/a","fallback":{"filePath":"p/a.html"}}]`)
	assert.Equal(t, []string{"/a"}, testutil.CandidatePaths(src.Discover(context.Background())))

	broken := NewPrerenderSourceFromJSON(project, `not json`)
	assert.Empty(t, broken.Discover(context.Background()))
}
