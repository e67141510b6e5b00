package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	// InboundTypeChat is the single canonical inbound event name.
	InboundTypeChat = "chat"

	OutboundTypeWelcome  = "welcome"
	OutboundTypeHistory  = "history"
	OutboundTypeMessage  = "message"
	OutboundTypePresence = "presence"
)

// ChatData is a chat submission. A bare JSON string is accepted as sugar
// for {"text": ...}; everything else must carry a text field.
type ChatData struct {
	Text string `json:"text"`
}

// UnmarshalJSON accepts either `"hi"` or `{"text":"hi"}`.
func (c *ChatData) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		return nil
	}

	type plain ChatData
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ChatData(p)
	return nil
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// User is the wire shape of an identity.
type User struct {
	Kind        string `json:"kind"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// Message is the wire shape of a routed chat message.
type Message struct {
	ID   int64  `json:"id"`
	User User   `json:"user"`
	Text string `json:"text"`
	TS   string `json:"ts"` // RFC3339
}

// WelcomeData greets a connection right after it joins.
type WelcomeData struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// HistoryData replays recent messages to a joining connection.
type HistoryData struct {
	Messages []Message `json:"messages"`
}

// PresenceData announces the online count and participant list.
type PresenceData struct {
	Online int    `json:"online"`
	Users  []User `json:"users"`
}
