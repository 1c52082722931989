// Package notify fans change snapshots out to in-process listeners.
package notify

import "sync"

// Listener receives every value published to the Hub it is registered on.
type Listener[T any] func(T)

// Hub is a registry of listeners. Publish delivers to listeners in
// registration order, on the publishing goroutine.
type Hub[T any] struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener[T]
	order     []uint64
}

// NewHub creates an empty Hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{listeners: make(map[uint64]Listener[T])}
}

// Subscription is a handle to one registered listener.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewSubscription wraps a release function so it runs at most once.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Subscribe registers fn and returns its handle.
func (h *Hub[T]) Subscribe(fn Listener[T]) *Subscription {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	return NewSubscription(func() { h.remove(id) })
}

func (h *Hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Publish calls every current listener with v.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	fns := make([]Listener[T], 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.listeners[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len reports the number of registered listeners.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
