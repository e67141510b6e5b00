package core

import (
	"fmt"
	"math/rand"
)

// IdentityKind distinguishes linked identities from anonymous guests.
type IdentityKind string

const (
	// IdentityLinked is an identity backed by an external profile.
	IdentityLinked IdentityKind = "linked"
	// IdentityAnonymous is a per-connection guest identity.
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the display persona attached to one live connection.
// It is immutable for the lifetime of the connection.
type Identity struct {
	ConnID      string
	Kind        IdentityKind
	Username    string
	DisplayName string
	Avatar      string
}

// LinkedIdentity builds an identity from an external profile. An empty
// display name falls back to the username, an empty avatar to the GitHub
// avatar URL derived from it.
func LinkedIdentity(connID, username, displayName, avatar string) Identity {
	if displayName == "" {
		displayName = username
	}
	if avatar == "" {
		avatar = fmt.Sprintf("https://github.com/%s.png", username)
	}
	return Identity{
		ConnID:      connID,
		Kind:        IdentityLinked,
		Username:    username,
		DisplayName: displayName,
		Avatar:      avatar,
	}
}

// AnonymousIdentity mints a guest identity with a randomized numeric suffix.
func AnonymousIdentity(connID string) Identity {
	n := rand.Intn(10000)
	return Identity{
		ConnID:      connID,
		Kind:        IdentityAnonymous,
		Username:    fmt.Sprintf("guest_%d", n),
		DisplayName: fmt.Sprintf("访客#%d", n),
		Avatar:      fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=%d", n),
	}
}
