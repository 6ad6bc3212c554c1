package sse

import (
	"testing"

	"github.com/google/uuid"
)

func newTestClient() *client {
	return &client{userID: uuid.New(), events: make(chan Event, 32)}
}

func TestBroadcastDeliversToClients(t *testing.T) {
	s := New()
	c := newTestClient()
	s.addClient(c)

	s.Broadcast(Event{Type: EventBookingReceived, Message: "new booking"})

	select {
	case got := <-c.events:
		if got.Type != EventBookingReceived {
			t.Fatalf("event type = %q, want %q", got.Type, EventBookingReceived)
		}
	default:
		t.Fatal("expected an event on the client channel")
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	s := New()
	c := &client{userID: uuid.New(), events: make(chan Event, 1)}
	s.addClient(c)

	s.Broadcast(Event{Type: EventQuoteUpdated})
	s.Broadcast(Event{Type: EventQuoteUpdated})

	if len(c.events) != 1 {
		t.Fatalf("expected 1 buffered event, got %d", len(c.events))
	}
}

func TestBroadcastAfterRemoveDoesNotPanic(t *testing.T) {
	s := New()
	c := newTestClient()
	s.addClient(c)
	s.removeClient(c)

	// A broadcast racing a disconnect may still hold a reference to the
	// removed client; the send must be harmless.
	s.Broadcast(Event{Type: EventQuoteConfirmed})

	s.mu.RLock()
	remaining := len(s.clients)
	s.mu.RUnlock()
	if remaining != 0 {
		t.Fatalf("expected no clients, got %d", remaining)
	}
}

func TestBroadcastAfterCloseDoesNotPanic(t *testing.T) {
	s := New()
	c := newTestClient()
	s.addClient(c)

	s.Close()
	s.Broadcast(Event{Type: EventQuoteUpdated})

	select {
	case <-s.done:
	default:
		t.Fatal("expected done channel to be closed")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New()
	s.Close()
	s.Close()
}
