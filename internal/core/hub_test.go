package core

import (
	"context"
	"testing"
	"time"
)

func newTestHub(historyCapacity int) *Hub {
	return NewHub(NewPresence(), NewHistory(historyCapacity), testLogger())
}

func TestHubJoinBroadcastAndLeave(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := newTestHub(50)
	go hub.Run(ctx)

	alice := NewClient("a", LinkedIdentity("a", "alice", "Alice", ""))
	hub.Register(alice)

	ev := mustEvent(t, alice.Events, EventPresence)
	if ev.Online != 1 {
		t.Fatalf("expected online 1 after first join, got %d", ev.Online)
	}
	hist := mustEvent(t, alice.Events, EventHistory)
	if len(hist.Messages) != 0 {
		t.Fatalf("expected empty history for fresh relay, got %d", len(hist.Messages))
	}
	welcome := mustEvent(t, alice.Events, EventWelcome)
	if welcome.Text != WelcomeText || welcome.User.Username != "alice" {
		t.Fatalf("unexpected welcome event: %+v", welcome)
	}

	bob := NewClient("b", AnonymousIdentity("b"))
	hub.Register(bob)

	ev = mustEvent(t, alice.Events, EventPresence)
	if ev.Online != 2 {
		t.Fatalf("expected online 2 after second join, got %d", ev.Online)
	}

	connectedAt := time.Now()
	hub.Submit("a", "hi")

	for _, c := range []*Client{alice, bob} {
		msgEv := mustEvent(t, c.Events, EventMessage)
		if msgEv.Message.Text != "hi" || msgEv.Message.Sender.Username != "alice" {
			t.Fatalf("unexpected message event for %s: %+v", c.ID, msgEv)
		}
		if msgEv.Message.SentAt.Before(connectedAt.Add(-time.Second)) {
			t.Fatalf("message timestamp too early: %v", msgEv.Message.SentAt)
		}
	}

	hub.Unregister(bob)
	ev = mustEvent(t, alice.Events, EventPresence)
	if ev.Online != 1 {
		t.Fatalf("expected online 1 after leave, got %d", ev.Online)
	}
}

func TestHubHistoryReplayBeforeLiveTraffic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := newTestHub(2)
	go hub.Run(ctx)

	alice := NewClient("a", LinkedIdentity("a", "alice", "", ""))
	hub.Register(alice)

	hub.Submit("a", "m1")
	hub.Submit("a", "m2")
	hub.Submit("a", "m3")
	mustEvent(t, alice.Events, EventMessage)
	mustEvent(t, alice.Events, EventMessage)
	mustEvent(t, alice.Events, EventMessage)

	late := NewClient("c", AnonymousIdentity("c"))
	hub.Register(late)
	hub.Submit("a", "m4")

	// Replay must arrive before the live broadcast and hold only the
	// newest capacity-many messages, oldest first.
	var sawHistory bool
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := <-late.Events
		if ev.Kind == EventMessage {
			if !sawHistory {
				t.Fatal("live broadcast arrived before history replay")
			}
			if ev.Message.Text != "m4" {
				t.Fatalf("unexpected live message: %q", ev.Message.Text)
			}
			return
		}
		if ev.Kind == EventHistory {
			sawHistory = true
			if len(ev.Messages) != 2 {
				t.Fatalf("expected 2 replayed messages, got %d", len(ev.Messages))
			}
			if ev.Messages[0].Text != "m2" || ev.Messages[1].Text != "m3" {
				t.Fatalf("unexpected replay: %q, %q", ev.Messages[0].Text, ev.Messages[1].Text)
			}
		}
	}
	t.Fatal("live message never arrived")
}

func TestHubDropsMessageAfterDisconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := newTestHub(50)
	go hub.Run(ctx)

	alice := NewClient("a", LinkedIdentity("a", "alice", "", ""))
	bob := NewClient("b", LinkedIdentity("b", "bob", "", ""))
	hub.Register(alice)
	hub.Register(bob)
	hub.Unregister(bob)

	// Simulates a message racing its own disconnect.
	hub.Submit("b", "ghost")
	hub.Submit("a", "real")

	ev := mustEvent(t, alice.Events, EventMessage)
	if ev.Message.Text != "real" || ev.Message.Sender.Username != "alice" {
		t.Fatalf("dropped message leaked into the feed: %+v", ev.Message)
	}
}

func TestHubUnregisterIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := newTestHub(50)
	go hub.Run(ctx)

	alice := NewClient("a", AnonymousIdentity("a"))
	bob := NewClient("b", AnonymousIdentity("b"))
	hub.Register(alice)
	hub.Register(bob)

	hub.Unregister(bob)
	hub.Unregister(bob)

	// Alice sees presence 1 (own join), 2 (bob joins), then 1 (bob leaves).
	for _, want := range []int{1, 2, 1} {
		ev := mustEvent(t, alice.Events, EventPresence)
		if ev.Online != want {
			t.Fatalf("expected online %d, got %d", want, ev.Online)
		}
	}

	// The duplicate teardown must not produce a fourth presence event.
	hub.Submit("a", "ping")
	select {
	case ev := <-alice.Events:
		if ev.Kind != EventMessage || ev.Message.Text != "ping" {
			t.Fatalf("expected the ping broadcast next, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ping broadcast never arrived")
	}
	if hub.Presence().Count() != 1 {
		t.Fatalf("presence count drifted: %d", hub.Presence().Count())
	}
}

func TestHubSenderIdentitySurvivesDisconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := newTestHub(50)
	go hub.Run(ctx)

	alice := NewClient("a", LinkedIdentity("a", "alice", "Alice", ""))
	bob := NewClient("b", AnonymousIdentity("b"))
	hub.Register(alice)
	hub.Register(bob)

	hub.Submit("a", "parting words")
	hub.Unregister(alice)

	ev := mustEvent(t, bob.Events, EventMessage)
	if ev.Message.Sender.Username != "alice" || ev.Message.Sender.DisplayName != "Alice" {
		t.Fatalf("sender snapshot lost after disconnect: %+v", ev.Message.Sender)
	}
}
