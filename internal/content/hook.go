// Package content wraps the data services in request-scoped fetch hooks and
// builds the composite views served by the public API: categorized tabs,
// the home page and the infinite-scroll listing.
package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sachpatra/internal/metrics"
	"go.uber.org/zap"
)

// State is the observable result of a hook.
type State[T any] struct {
	Data    T
	Loading bool
	Error   string
}

// Failed reports whether the last load produced an error.
func (s State[T]) Failed() bool {
	return s.Error != ""
}

// Fetcher loads the hook's data.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Hook runs a fetcher and keeps its last state. Starting a new load, or
// closing the hook, cancels the load in flight; a superseded load never
// overwrites the state.
type Hook[T any] struct {
	name   string
	fetch  Fetcher[T]
	logger *zap.Logger

	mu     sync.Mutex
	state  State[T]
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

// NewHook builds a hook. name appears in error messages and logs.
func NewHook[T any](name string, fetch func(context.Context) (T, error), logger *zap.Logger) *Hook[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hook[T]{name: name, fetch: fetch, logger: logger}
}

// Load fetches under a context derived from ctx and returns the new state.
func (h *Hook[T]) Load(ctx context.Context) State[T] {
	h.mu.Lock()
	if h.closed {
		state := h.state
		h.mu.Unlock()
		return state
	}
	if h.cancel != nil {
		h.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.gen++
	gen := h.gen
	h.state.Loading = true
	h.mu.Unlock()

	data, err := h.fetch(loadCtx)

	h.mu.Lock()
	defer h.mu.Unlock()
	cancel()
	if gen != h.gen || h.closed {
		return h.state
	}
	h.cancel = nil
	h.state.Loading = false
	if err != nil {
		var zero T
		h.state.Data = zero
		h.state.Error = errorMessage(h.name, err)
		h.logger.Warn("content load failed", zap.String("hook", h.name), zap.Error(err))
		metrics.FetchErrors.WithLabelValues(h.name).Inc()
		return h.state
	}
	h.state.Data = data
	h.state.Error = ""
	return h.state
}

// Refetch reloads with the same fetcher.
func (h *Hook[T]) Refetch(ctx context.Context) State[T] {
	return h.Load(ctx)
}

// State returns the current state.
func (h *Hook[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Close cancels any load in flight. Later loads are ignored.
func (h *Hook[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.state.Loading = false
}

func errorMessage(name string, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("loading %s timed out", name)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("loading %s was cancelled", name)
	default:
		return fmt.Sprintf("failed to load %s", name)
	}
}
