package internal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cloverbooth/kiosk/internal/model"
)

// viewerBuffer bounds how far a slow viewer may lag before projections
// are dropped for it.
const viewerBuffer = 8

type IHub interface {
	Subscribe() (<-chan model.Projection, func())
	Publish(model.Projection)
}

// Hub fans projections out to connected viewers. It holds no order
// data; callers recompute the projection before every Publish.
type Hub struct {
	mu      sync.Mutex
	viewers map[chan model.Projection]struct{}
	logger  *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{viewers: make(map[chan model.Projection]struct{}), logger: logger}
}

// Subscribe registers a viewer and returns its channel plus a cancel
// func. Cancel closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan model.Projection, func()) {
	ch := make(chan model.Projection, viewerBuffer)

	h.mu.Lock()
	h.viewers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.viewers[ch]; ok {
			delete(h.viewers, ch)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish delivers p to every viewer without blocking the caller; a
// viewer whose buffer is full misses this projection and catches up on
// the next one. Per-viewer order is preserved by the channel itself.
func (h *Hub) Publish(p model.Projection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.viewers {
		select {
		case ch <- p:
		default:
			h.logger.Warn("dropping projection for slow viewer")
		}
	}
}
