package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("not found")

// Session links a browser cookie to an external profile. Sessions outlive
// connections: reconnecting with the same cookie yields the same identity.
type Session struct {
	ID          string
	Username    string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// SessionStore persists authenticated sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is the full persistence surface.
type Store interface {
	SessionStore
	Close() error
}
