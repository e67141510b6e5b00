package core

import "time"

// Message is the domain model for a routed chat message. Sender is a value
// copy captured at routing time; it survives the sender disconnecting.
type Message struct {
	ID     int64
	Sender Identity
	Text   string
	SentAt time.Time
}
