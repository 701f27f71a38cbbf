package internal

import "sync"

// Overlay is the process-lifetime set of order IDs hidden from every
// projection. It only grows; restart empties it without touching the
// ledger.
type Overlay struct {
	mu  sync.RWMutex
	ids map[int]struct{}
}

func NewOverlay() *Overlay {
	return &Overlay{ids: make(map[int]struct{})}
}

func (o *Overlay) Add(id int) {
	o.mu.Lock()
	o.ids[id] = struct{}{}
	o.mu.Unlock()
}

func (o *Overlay) Contains(id int) bool {
	o.mu.RLock()
	_, ok := o.ids[id]
	o.mu.RUnlock()
	return ok
}
