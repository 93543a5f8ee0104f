package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// FileStore keeps the index artifact as a JSON file on disk.
// The last successful import is cached until the file is exported again or changes on disk.
type FileStore struct {
	path string

	mu     sync.RWMutex
	cached *model.SearchIndexData
}

var _ services.IndexStore = (*FileStore)(nil)

// NewFileStore creates a store for path. A relative path is resolved against baseDir.
func NewFileStore(baseDir, path string) *FileStore {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return &FileStore{path: filepath.Clean(path)}
}

// Path returns the resolved artifact location.
func (s *FileStore) Path() string {
	return s.path
}

// Import reads the artifact. A missing, unreadable or invalid file yields nil, nil.
func (s *FileStore) Import(ctx context.Context) (*model.SearchIndexData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	raw, err := os.ReadFile(s.path) // #nosec G304 -- path is controlled by application configuration
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no index artifact at %s", s.path)
		} else {
			logger.Warn("failed to read index artifact %s: %v", s.path, err)
		}
		return nil, nil
	}

	data := decodeArtifact(raw, s.path)
	if data == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.cached = data
	s.mu.Unlock()
	return data, nil
}

// Export writes data as JSON, creating parent directories. An existing artifact is left untouched
// unless opts.Override is set.
func (s *FileStore) Export(ctx context.Context, data *model.SearchIndexData, opts services.ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := encodeArtifact(data)
	if err != nil {
		return err
	}

	if !opts.Override {
		if _, err := os.Stat(s.path); err == nil {
			logger.Info("index artifact %s already exists, keeping it", s.path)
			return nil
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write index artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move index artifact into place at %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cached = data
	s.mu.Unlock()

	logger.Info("index artifact written to %s (%d chunks)", s.path, len(data.Keys))
	return nil
}

// Invalidate drops the cached artifact so the next Import reads the file again.
func (s *FileStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Watch invalidates the cache whenever the artifact file is written, replaced or removed, then
// calls onChange (if non-nil). It returns once the watcher is running; watching stops with ctx.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// The directory is watched so atomic renames onto the artifact are observed.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				logger.Debug("index artifact %s changed (%s)", s.path, event.Op)
				s.Invalidate()
				if onChange != nil {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher error for %s: %v", s.path, err)
			}
		}
	}()
	return nil
}
