package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kuank/studychat-server/internal/core"
	"github.com/kuank/studychat-server/internal/proto"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "studychat_session"

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub      *core.Hub
	resolver *core.Resolver
	origins  []string
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, resolver *core.Resolver, origins []string, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, resolver: resolver, origins: origins, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(h.origins),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// Resolve on this connection's goroutine so a slow session lookup
	// never stalls the hub or other connections.
	token := sessionToken(r)
	connID := uuid.NewString()
	identity := h.resolver.Resolve(ctx, connID, token)

	client := core.NewClient(connID, identity)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var in proto.Inbound
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			return err
		}

		switch in.Type {
		case proto.InboundTypeChat:
			var chat proto.ChatData
			if len(in.Data) > 0 {
				if err := json.Unmarshal(in.Data, &chat); err != nil {
					// Malformed text degrades to an empty message, never
					// a protocol error back to the client.
					h.log.Debug().Err(err).Str("conn_id", client.ID).Msg("malformed chat payload")
					chat = proto.ChatData{}
				}
			}
			h.hub.Submit(client.ID, chat.Text)
		default:
			h.log.Debug().Str("conn_id", client.ID).Str("type", in.Type).Msg("ignoring unknown inbound type")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func sessionToken(r *stdhttp.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// originPatterns converts configured origin URLs into host patterns
// understood by websocket.AcceptOptions.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}
