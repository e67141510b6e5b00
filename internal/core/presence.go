package core

import "sync"

// Presence tracks which connections are currently online. It is the single
// source of truth for the online count: every live connection has exactly
// one entry, keyed by connection ID.
type Presence struct {
	mu      sync.RWMutex
	entries map[string]Identity
	order   []string
}

// NewPresence constructs an empty presence registry.
func NewPresence() *Presence {
	return &Presence{entries: make(map[string]Identity)}
}

// Register inserts or overwrites the entry for the connection.
func (p *Presence) Register(connID string, identity Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.entries[connID]; !exists {
		p.order = append(p.order, connID)
	}
	p.entries[connID] = identity
}

// Remove deletes the entry if present. Removing an unknown connection is a
// no-op, so a duplicate teardown signal is harmless.
func (p *Presence) Remove(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.entries[connID]; !exists {
		return
	}
	delete(p.entries, connID)
	for i, id := range p.order {
		if id == connID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Get looks up the identity for a connection. The second return is false
// when the connection is not tracked.
func (p *Presence) Get(connID string) (Identity, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	identity, ok := p.entries[connID]
	return identity, ok
}

// Snapshot returns a copy of all current identities in join order. The
// order carries no meaning beyond presentation.
func (p *Presence) Snapshot() []Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Identity, 0, len(p.entries))
	for _, connID := range p.order {
		out = append(out, p.entries[connID])
	}
	return out
}

// Count returns the number of live connections.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.entries)
}
