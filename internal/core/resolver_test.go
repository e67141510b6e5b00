package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLookup struct {
	profile Profile
	err     error
}

func (f *fakeLookup) ProfileForToken(_ context.Context, _ string) (Profile, error) {
	return f.profile, f.err
}

func TestResolveLinkedIdentity(t *testing.T) {
	resolver := NewResolver(&fakeLookup{profile: Profile{
		Username:    "alice",
		DisplayName: "Alice",
		Avatar:      "https://example.com/a.png",
	}}, testLogger())

	identity := resolver.Resolve(context.Background(), "c1", "token")
	if identity.Kind != IdentityLinked {
		t.Fatalf("expected linked identity, got %s", identity.Kind)
	}
	if identity.Username != "alice" || identity.DisplayName != "Alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.ConnID != "c1" {
		t.Fatalf("identity not bound to connection: %q", identity.ConnID)
	}
}

func TestResolveAvatarFallback(t *testing.T) {
	resolver := NewResolver(&fakeLookup{profile: Profile{Username: "bob"}}, testLogger())

	identity := resolver.Resolve(context.Background(), "c1", "token")
	if identity.Avatar != "https://github.com/bob.png" {
		t.Fatalf("expected synthesized avatar, got %q", identity.Avatar)
	}
	if identity.DisplayName != "bob" {
		t.Fatalf("expected username as display name, got %q", identity.DisplayName)
	}
}

func TestResolveFallsBackToAnonymous(t *testing.T) {
	cases := []struct {
		name   string
		lookup ProfileLookup
		token  string
	}{
		{"no token", &fakeLookup{profile: Profile{Username: "alice"}}, ""},
		{"lookup error", &fakeLookup{err: errors.New("store down")}, "token"},
		{"empty profile", &fakeLookup{}, "token"},
		{"nil lookup", nil, "token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := NewResolver(tc.lookup, testLogger())
			identity := resolver.Resolve(context.Background(), "c1", tc.token)
			if identity.Kind != IdentityAnonymous {
				t.Fatalf("expected anonymous fallback, got %s", identity.Kind)
			}
			if !strings.HasPrefix(identity.Username, "guest_") {
				t.Fatalf("unexpected guest username: %q", identity.Username)
			}
			if !strings.HasPrefix(identity.DisplayName, "访客#") {
				t.Fatalf("unexpected guest display name: %q", identity.DisplayName)
			}
		})
	}
}

func TestAnonymousIdentitiesStayDistinctPerConnection(t *testing.T) {
	a := AnonymousIdentity("conn-a")
	b := AnonymousIdentity("conn-b")

	if a.ConnID == b.ConnID {
		t.Fatal("connection ids collided")
	}
	// Suffixes are random; only the connection binding must differ.
	if a.ConnID != "conn-a" || b.ConnID != "conn-b" {
		t.Fatalf("identities not bound to their connections: %q, %q", a.ConnID, b.ConnID)
	}
}
