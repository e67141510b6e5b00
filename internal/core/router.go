package core

import (
	"sync/atomic"
	"time"
)

// Router stamps inbound payloads into Messages and appends them to history.
// It is the sole mutation point for the history buffer.
type Router struct {
	presence *Presence
	history  *History
	lastID   atomic.Int64
}

// NewRouter wires a router over the shared presence registry and history.
func NewRouter(presence *Presence, history *History) *Router {
	return &Router{presence: presence, history: history}
}

// Route resolves the sender, stamps id and timestamp, and records the
// message. It returns false when the sender has no presence entry (a
// disconnect raced the message); such messages are silently dropped.
// Missing text is treated as an empty string, never an error.
func (r *Router) Route(connID, text string) (Message, bool) {
	sender, ok := r.presence.Get(connID)
	if !ok {
		return Message{}, false
	}

	now := time.Now()
	msg := Message{
		ID:     r.nextID(now),
		Sender: sender,
		Text:   text,
		SentAt: now,
	}
	r.history.Append(msg)
	return msg, true
}

// nextID derives a millisecond-based id, bumped past the previous one so
// ids stay strictly increasing across same-millisecond messages.
func (r *Router) nextID(now time.Time) int64 {
	candidate := now.UnixMilli()
	for {
		last := r.lastID.Load()
		if candidate <= last {
			candidate = last + 1
		}
		if r.lastID.CompareAndSwap(last, candidate) {
			return candidate
		}
	}
}
