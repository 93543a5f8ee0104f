// Package builder runs the discover, filter, extract and index pipeline that produces a
// serialized site index.
package builder

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/engine"
	internalErrors "github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/filter"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// DefaultConcurrency bounds parallel page loads when Options.Concurrency is unset.
const DefaultConcurrency = 8

// Options configures a Builder.
type Options struct {
	Sources     []services.Source
	Chain       *filter.Chain // nil applies no filtering
	Extractor   services.Extractor
	Settings    config.IndexSettings
	Concurrency int
}

// Report summarizes the latest build.
type Report struct {
	Discovered  int           `json:"discovered"`
	AfterFilter int           `json:"after_filter"`
	Indexed     int           `json:"indexed"`
	Skipped     int           `json:"skipped"`
	Duration    time.Duration `json:"duration"`
}

// Builder produces a SearchIndexData from the configured sources.
type Builder struct {
	opts Options

	mu     sync.Mutex
	report Report
}

type indexedPage struct {
	path string
	page *model.StructuredPage
}

// New validates opts and returns a Builder.
func New(opts Options) (*Builder, error) {
	if len(opts.Sources) == 0 {
		return nil, internalErrors.NewConfigurationError("sources", "at least one source is required")
	}
	if opts.Extractor == nil {
		return nil, internalErrors.NewConfigurationError("extractor", "cannot be nil")
	}
	if opts.Chain == nil {
		opts.Chain = filter.NewChain()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	opts.Settings.ApplyDefaults()
	return &Builder{opts: opts}, nil
}

// LastReport returns statistics of the most recent Build call.
func (b *Builder) LastReport() Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.report
}

// Build runs the pipeline. It returns nil, nil when no page survives discovery, filtering or
// extraction.
func (b *Builder) Build(ctx context.Context) (*model.SearchIndexData, error) {
	start := time.Now()
	report := Report{}
	defer func() {
		report.Duration = time.Since(start)
		b.mu.Lock()
		b.report = report
		b.mu.Unlock()
	}()

	candidates := b.discover(ctx)
	report.Discovered = len(candidates)
	if len(candidates) == 0 {
		logger.Warn("No pages discovered")
		return nil, nil
	}

	candidates = b.opts.Chain.Apply(ctx, candidates)
	report.AfterFilter = len(candidates)
	if len(candidates) == 0 {
		logger.Warn("All %d discovered pages were filtered out", report.Discovered)
		return nil, nil
	}

	pages := b.extract(ctx, candidates)
	report.Indexed = len(pages)
	report.Skipped = len(candidates) - len(pages)
	if len(pages) == 0 {
		logger.Warn("None of the %d filtered pages had extractable content", len(candidates))
		return nil, nil
	}

	eng, err := engine.New(b.opts.Settings)
	if err != nil {
		return nil, err
	}
	eng.Initialize()
	for _, p := range pages {
		if err := eng.AddPage(p.path, *p.page); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", p.path, err)
		}
	}

	data, err := eng.ExportData()
	if err != nil {
		return nil, fmt.Errorf("failed to export index: %w", err)
	}
	logger.Info("Indexed %d pages (%d skipped)", report.Indexed, report.Skipped)
	return data, nil
}

// discover queries every source concurrently and merges results in source order, keeping the
// first candidate seen for each path.
func (b *Builder) discover(ctx context.Context) []model.PageCandidate {
	results := make([][]model.PageCandidate, len(b.opts.Sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range b.opts.Sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = src.Discover(gctx)
			logger.Debug("%s source found %d pages", src.Kind(), len(results[i]))
			return nil
		})
	}
	_ = g.Wait() // sources never fail

	seen := make(map[string]struct{})
	merged := make([]model.PageCandidate, 0)
	for _, list := range results {
		for _, c := range list {
			if _, dup := seen[c.Path]; dup {
				continue
			}
			seen[c.Path] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

// extract loads and extracts candidates with bounded parallelism. Failures are logged and
// skipped; the result keeps candidate order.
func (b *Builder) extract(ctx context.Context, candidates []model.PageCandidate) []indexedPage {
	pages := make([]*model.StructuredPage, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			pages[i] = b.load(c)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]indexedPage, 0, len(candidates))
	for i, page := range pages {
		if page != nil {
			out = append(out, indexedPage{path: candidates[i].Path, page: page})
		}
	}
	return out
}

func (b *Builder) load(c model.PageCandidate) *model.StructuredPage {
	markup := c.Content
	if !c.HasInlineContent() {
		if c.FilePath == "" {
			logger.Warn("Skipping %s: no markup available", c.Path)
			return nil
		}
		raw, err := os.ReadFile(c.FilePath)
		if err != nil {
			logger.Warn("Skipping %s: failed to read %s: %v", c.Path, c.FilePath, err)
			return nil
		}
		markup = string(raw)
	}

	page, err := b.opts.Extractor.Extract(markup)
	if err != nil {
		logger.Warn("Skipping %s: extraction failed: %v", c.Path, err)
		return nil
	}
	if page == nil {
		logger.Debug("Skipping %s: no extractable content", c.Path)
		return nil
	}
	return page
}
