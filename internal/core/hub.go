package core

import (
	"context"

	"github.com/rs/zerolog"
)

// WelcomeText is sent once to every connection right after it joins.
const WelcomeText = "欢迎来到 Miku 自习室！"

type inbound struct {
	connID string
	text   string
}

// Hub is the broadcast engine. A single Run goroutine owns the client set
// and serializes registration, message routing, and fan-out, so every
// connection observes events in the same order. Identity resolution happens
// on the connection's own goroutine before Register is called; the hub
// never blocks on anything but its own channels.
type Hub struct {
	presence *Presence
	history  *History
	router   *Router
	log      *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}

	clients map[string]*Client
}

// NewHub constructs a hub over the shared presence registry and history.
func NewHub(presence *Presence, history *History, logger *zerolog.Logger) *Hub {
	return &Hub{
		presence:   presence,
		history:    history,
		router:     NewRouter(presence, history),
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Presence exposes the registry for read-only consumers (health endpoint).
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Register hands a resolved client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client. Safe to call more than once for the same
// client; the second call is a no-op.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit forwards a raw chat payload from a connection. The handoff is
// synchronous, so two Submit calls from one connection are always routed
// in call order; routing and fan-out happen on the hub goroutine.
func (h *Hub) Submit(connID, text string) {
	select {
	case h.inbound <- inbound{connID: connID, text: text}:
	case <-h.done:
	}
}

// Run processes hub traffic until the context is cancelled. Call it in its
// own goroutine once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients {
				close(c.Events)
			}
			h.clients = make(map[string]*Client)
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case in := <-h.inbound:
			h.handleInbound(in)
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	h.clients[c.ID] = c
	h.presence.Register(c.ID, c.Identity)

	h.log.Info().
		Str("conn_id", c.ID).
		Str("user", c.Identity.Username).
		Int("online", h.presence.Count()).
		Msg("connection joined")

	h.broadcastPresence()
	h.send(c, &Event{Kind: EventHistory, Messages: h.history.Snapshot()})
	h.send(c, &Event{Kind: EventWelcome, Text: WelcomeText, User: c.Identity})
}

func (h *Hub) handleUnregister(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	h.presence.Remove(c.ID)
	close(c.Events)

	h.log.Info().
		Str("conn_id", c.ID).
		Int("online", h.presence.Count()).
		Msg("connection left")

	h.broadcastPresence()
}

func (h *Hub) handleInbound(in inbound) {
	msg, ok := h.router.Route(in.connID, in.text)
	if !ok {
		// Sender already gone; drop without surfacing an error.
		h.log.Debug().Str("conn_id", in.connID).Msg("dropped message from unknown sender")
		return
	}
	h.broadcast(&Event{Kind: EventMessage, Message: msg})
}

func (h *Hub) broadcastPresence() {
	users := h.presence.Snapshot()
	h.broadcast(&Event{Kind: EventPresence, Online: len(users), Users: users})
}

func (h *Hub) broadcast(event *Event) {
	for _, c := range h.clients {
		h.send(c, event)
	}
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("conn_id", c.ID).Msg("event dropped for slow consumer")
	}
}
