package leaderboard

import "sync"

// hub fans a "scores changed" signal out to live stream subscribers.
// Signals coalesce: a subscriber that has not consumed the previous one
// simply sees a single pending change.
type hub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed chan struct{}
	once   sync.Once
}

func newHub() *hub {
	return &hub{
		subs:   make(map[chan struct{}]struct{}),
		closed: make(chan struct{}),
	}
}

func (h *hub) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

func (h *hub) notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// close ends every stream; it is safe to call more than once.
func (h *hub) close() {
	h.once.Do(func() { close(h.closed) })
}
