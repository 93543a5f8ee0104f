package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/builder"
	"github.com/gcbaptista/go-site-index/internal/extractor"
	"github.com/gcbaptista/go-site-index/internal/filter"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/persistence"
	"github.com/gcbaptista/go-site-index/internal/source"
	"github.com/gcbaptista/go-site-index/services"
)

// openStore returns the configured artifact store and a function releasing its resources.
func openStore(ctx context.Context, settings *config.BuildSettings) (services.IndexStore, func(), error) {
	noop := func() {}
	switch settings.Store {
	case config.StoreSQLite:
		store, err := persistence.NewSQLiteStore(settings.ProjectDir, settings.IndexPath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.StoreS3:
		store, err := persistence.NewS3StoreFromEnv(ctx, settings.S3Region, settings.S3Bucket, settings.S3Key)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	default:
		return persistence.NewFileStore(settings.ProjectDir, settings.IndexPath), noop, nil
	}
}

// newSources builds the page sources: prerendered routes first, then the static output directory.
// A missing output directory is only fatal when there is no prerender source to fall back on.
func newSources(settings *config.BuildSettings) ([]services.Source, error) {
	sources := make([]services.Source, 0, 2)

	if settings.PrerenderRoutes != "" {
		routesFile := settings.PrerenderRoutes
		if !filepath.IsAbs(routesFile) {
			routesFile = filepath.Join(settings.ProjectDir, routesFile)
		}
		raw, err := os.ReadFile(routesFile)
		if err != nil {
			logger.Warn("failed to read prerender routes %s: %v", routesFile, err)
		} else {
			sources = append(sources, source.NewPrerenderSourceFromJSON(settings.ProjectDir, string(raw)))
		}
	}

	fileSource, err := source.NewFileSource(settings.ProjectDir, settings.SourceDir)
	switch {
	case err == nil:
		sources = append(sources, fileSource)
	case len(sources) == 0 || settings.SourceDir != "":
		return nil, err
	default:
		logger.Debug("no static output directory: %v", err)
	}
	return sources, nil
}

// newBuilder wires sources, the default filter chain and the HTML extractor.
func newBuilder(settings *config.BuildSettings) (*builder.Builder, error) {
	sources, err := newSources(settings)
	if err != nil {
		return nil, err
	}
	chain, err := filter.DefaultChain(settings.Filters, sources)
	if err != nil {
		return nil, err
	}
	logger.Debug("filter chain: %v", chain.Names())

	return builder.New(builder.Options{
		Sources:     sources,
		Chain:       chain,
		Extractor:   extractor.New(),
		Settings:    settings.Index,
		Concurrency: settings.Concurrency,
	})
}

// runBuild builds the index and exports it to store.
func runBuild(ctx context.Context, settings *config.BuildSettings, store services.IndexStore) (builder.Report, error) {
	b, err := newBuilder(settings)
	if err != nil {
		return builder.Report{}, err
	}

	data, err := b.Build(ctx)
	if err != nil {
		return b.LastReport(), err
	}
	if data == nil {
		return b.LastReport(), fmt.Errorf("no indexable pages found under %s", settings.ProjectDir)
	}

	if err := store.Export(ctx, data, services.ExportOptions{Override: settings.Override}); err != nil {
		return b.LastReport(), fmt.Errorf("failed to export index: %w", err)
	}
	return b.LastReport(), nil
}

// storeLocation describes where the artifact lives, for logs and job records.
func storeLocation(settings *config.BuildSettings, store services.IndexStore) string {
	switch s := store.(type) {
	case *persistence.FileStore:
		return s.Path()
	case *persistence.SQLiteStore:
		return s.Path()
	default:
		return fmt.Sprintf("s3://%s/%s", settings.S3Bucket, settings.S3Key)
	}
}
