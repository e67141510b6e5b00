package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventWelcome greets a newly joined connection, once.
	EventWelcome EventKind = iota
	// EventHistory delivers the recent-message replay to a joining connection.
	EventHistory
	// EventMessage carries a routed chat message to every connection.
	EventMessage
	// EventPresence announces the online count and participant list.
	EventPresence
)

// Event is sent to connections to describe what happened in the relay.
type Event struct {
	Kind     EventKind
	Message  Message
	Messages []Message // for EventHistory
	User     Identity  // for EventWelcome
	Users    []Identity
	Online   int
	Text     string // for EventWelcome
}
