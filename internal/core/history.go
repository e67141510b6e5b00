package core

import "sync"

// History is the bounded recent-message buffer replayed to joining
// connections. Oldest messages are evicted first; length never exceeds
// the configured capacity.
type History struct {
	mu       sync.RWMutex
	messages []Message
	capacity int
}

// NewHistory builds a buffer holding at most capacity messages.
// A capacity below 1 keeps a single message.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		messages: make([]Message, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a message to the tail, evicting from the head when full.
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	if len(h.messages) > h.capacity {
		h.messages = h.messages[len(h.messages)-h.capacity:]
	}
}

// Snapshot returns an oldest-first copy safe to iterate while the buffer
// keeps mutating.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the current number of buffered messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.messages)
}
