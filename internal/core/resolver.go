package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Profile is the external identity an authenticated session points at.
type Profile struct {
	Username    string
	DisplayName string
	Avatar      string
}

// ProfileLookup resolves a session token to its linked profile. An error or
// a zero-value profile means there is no usable linked identity.
type ProfileLookup interface {
	ProfileForToken(ctx context.Context, token string) (Profile, error)
}

// Resolver turns a connection's session token into a display identity.
// It never fails: any lookup error degrades to a fresh anonymous identity.
type Resolver struct {
	lookup ProfileLookup
	log    *zerolog.Logger
}

// NewResolver builds a resolver. lookup may be nil, in which case every
// connection resolves to an anonymous identity.
func NewResolver(lookup ProfileLookup, logger *zerolog.Logger) *Resolver {
	return &Resolver{lookup: lookup, log: logger}
}

// Resolve produces the identity for a connection. An empty token, a failed
// lookup, or a profile with no username all fall back to anonymous.
func (r *Resolver) Resolve(ctx context.Context, connID, token string) Identity {
	if token == "" || r.lookup == nil {
		return AnonymousIdentity(connID)
	}

	profile, err := r.lookup.ProfileForToken(ctx, token)
	if err != nil {
		r.log.Debug().Err(err).Str("conn_id", connID).Msg("session lookup failed, falling back to guest")
		return AnonymousIdentity(connID)
	}
	if profile.Username == "" {
		return AnonymousIdentity(connID)
	}

	return LinkedIdentity(connID, profile.Username, profile.DisplayName, profile.Avatar)
}
