package core

import (
	"context"
	"sync"
)

// ChangeHub fans out document changes to the watchers of a collection.
type ChangeHub struct {
	mu     sync.Mutex
	subs   map[string]map[chan Change]struct{}
	closed bool
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{subs: make(map[string]map[chan Change]struct{})}
}

// Subscribe returns a channel of changes to collection. It is closed once ctx is done or the hub is closed.
func (h *ChangeHub) Subscribe(ctx context.Context, collection string) <-chan Change {
	ch := make(chan Change, 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[chan Change]struct{})
	}
	h.subs[collection][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(collection, ch)
	}()
	return ch
}

func (h *ChangeHub) remove(collection string, ch chan Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[collection][ch]; ok {
		delete(h.subs[collection], ch)
		close(ch)
	}
}

// Publish never blocks. A subscriber with a pending change skips this one: either way it re-reads.
func (h *ChangeHub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[c.Collection] {
		select {
		case ch <- c:
		default:
		}
	}
}

// Broadcast signals every subscriber of every collection, e.g. after changes may have been missed.
func (h *ChangeHub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for collection, subs := range h.subs {
		for ch := range subs {
			select {
			case ch <- Change{Collection: collection, Op: OpUpdate}:
			default:
			}
		}
	}
}

func (h *ChangeHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for ch := range subs {
			close(ch)
		}
	}
	h.subs = nil
}
