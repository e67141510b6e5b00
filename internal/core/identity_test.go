package core

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func TestAnonymousIdentityShape(t *testing.T) {
	identity := AnonymousIdentity("c1")

	if identity.Kind != IdentityAnonymous {
		t.Fatalf("expected anonymous kind, got %s", identity.Kind)
	}
	if identity.ConnID != "c1" {
		t.Fatalf("identity not bound to connection: %q", identity.ConnID)
	}

	suffix, ok := strings.CutPrefix(identity.Username, "guest_")
	if !ok {
		t.Fatalf("unexpected username: %q", identity.Username)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		t.Fatalf("guest suffix is not numeric: %q", suffix)
	}
	if n < 0 || n >= 10000 {
		t.Fatalf("guest suffix out of range: %d", n)
	}

	if identity.DisplayName != fmt.Sprintf("访客#%d", n) {
		t.Fatalf("display name does not match suffix: %q", identity.DisplayName)
	}
	if identity.Avatar != fmt.Sprintf("https://api.dicebear.com/7.x/bottts/svg?seed=%d", n) {
		t.Fatalf("avatar not seeded with suffix: %q", identity.Avatar)
	}
}

func TestLinkedIdentityFallbacks(t *testing.T) {
	identity := LinkedIdentity("c1", "alice", "", "")

	if identity.Kind != IdentityLinked {
		t.Fatalf("expected linked kind, got %s", identity.Kind)
	}
	if identity.DisplayName != "alice" {
		t.Fatalf("expected username fallback for display name, got %q", identity.DisplayName)
	}
	if identity.Avatar != "https://github.com/alice.png" {
		t.Fatalf("expected synthesized avatar, got %q", identity.Avatar)
	}
}

func TestLinkedIdentityKeepsProfileFields(t *testing.T) {
	identity := LinkedIdentity("c1", "alice", "Alice", "https://example.com/a.png")

	if identity.DisplayName != "Alice" || identity.Avatar != "https://example.com/a.png" {
		t.Fatalf("profile fields overridden: %+v", identity)
	}
}
