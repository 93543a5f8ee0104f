package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/services"
)

// Holder lazily loads one engine from an IndexStore and keeps it until Reset.
type Holder struct {
	store    services.IndexStore
	settings config.IndexSettings

	mu     sync.Mutex
	engine *Engine
}

// NewHolder creates a holder that imports from store on first use.
func NewHolder(store services.IndexStore, settings config.IndexSettings) *Holder {
	return &Holder{store: store, settings: settings}
}

// Get returns the cached engine, importing it from the store on first call.
// ErrIndexUnavailable is returned when the store has no usable artifact.
func (h *Holder) Get(ctx context.Context) (*Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine != nil {
		return h.engine, nil
	}

	data, err := h.store.Import(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load index artifact: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: no index artifact found", errors.ErrIndexUnavailable)
	}

	eng, err := New(h.settings)
	if err != nil {
		return nil, err
	}
	if err := eng.ImportData(data); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrIndexUnavailable, err)
	}

	logger.Info("search index loaded with %d documents", eng.Count())
	h.engine = eng
	return eng, nil
}

// Reset drops the cached engine; the next Get imports again.
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = nil
}
