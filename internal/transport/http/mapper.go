package http

import (
	"time"

	"github.com/kuank/studychat-server/internal/core"
	"github.com/kuank/studychat-server/internal/proto"
)

func userFromIdentity(identity core.Identity) proto.User {
	return proto.User{
		Kind:        string(identity.Kind),
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
		Avatar:      identity.Avatar,
	}
}

func messageFromCore(msg core.Message) proto.Message {
	return proto.Message{
		ID:   msg.ID,
		User: userFromIdentity(msg.Sender),
		Text: msg.Text,
		TS:   msg.SentAt.Format(time.RFC3339),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventWelcome:
		return proto.Outbound{
			Type: proto.OutboundTypeWelcome,
			Data: proto.WelcomeData{
				Message: event.Text,
				User:    userFromIdentity(event.User),
			},
		}
	case core.EventHistory:
		messages := make([]proto.Message, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageFromCore(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: proto.HistoryData{Messages: messages},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: messageFromCore(event.Message),
		}
	case core.EventPresence:
		users := make([]proto.User, 0, len(event.Users))
		for _, identity := range event.Users {
			users = append(users, userFromIdentity(identity))
		}
		return proto.Outbound{
			Type: proto.OutboundTypePresence,
			Data: proto.PresenceData{Online: event.Online, Users: users},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeMessage}
	}
}
