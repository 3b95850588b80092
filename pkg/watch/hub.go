package watch

import "sync"

// Hub fans out snapshot values to subscribers. Delivery is latest-wins: a
// subscriber that falls behind sees the most recent value, not every
// intermediate one. Channels carry a buffer of one so publishers never block.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
	last T
	seen bool
}

// NewHub returns an empty hub with no subscribers.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a listener. The returned channel immediately receives
// the last published value, if any. The cancel func removes the subscription
// and closes the channel; it is safe to call more than once.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.seen {
		ch <- h.last
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish delivers a value to every current subscriber and records it as the
// latest snapshot for future subscribers.
func (h *Hub[T]) Publish(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = value
	h.seen = true
	for ch := range h.subs {
		select {
		case ch <- value:
		default:
			// Drop the stale buffered value and replace it.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}

// Len reports the current subscriber count.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
