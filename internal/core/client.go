package core

// Client is one live connection as seen by the hub.
type Client struct {
	ID       string
	Identity Identity
	Events   chan *Event
}

// NewClient constructs a client with a buffered event channel. The identity
// must already be resolved; it never changes for the connection's lifetime.
func NewClient(id string, identity Identity) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		Events:   make(chan *Event, 16),
	}
}
