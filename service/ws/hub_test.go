package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, 4)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed unexpectedly")
		}
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a broadcast")
	}
	return nil
}

func TestHubBroadcastsToAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub)
	second := newTestClient(hub)
	hub.register <- first
	hub.register <- second

	hub.Broadcast("message", map[string]string{"content": "hola"})

	for _, c := range []*Client{first, second} {
		var event Event
		if err := json.Unmarshal(receive(t, c), &event); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if event.Type != "message" {
			t.Errorf("event type %q, want message", event.Type)
		}
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	leaving := newTestClient(hub)
	staying := newTestClient(hub)
	hub.register <- leaving
	hub.register <- staying

	hub.unregister <- leaving
	hub.Broadcast("message", map[string]string{"content": "hola"})

	// The remaining client still receives; processing order in Run
	// guarantees the unregister happened before the broadcast.
	receive(t, staying)

	select {
	case _, ok := <-leaving.send:
		if ok {
			t.Error("unregistered client received a broadcast")
		}
	case <-time.After(time.Second):
		t.Error("unregistered client's send channel was not closed")
	}
}

func TestHubDropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stuck := &Client{hub: hub, send: make(chan []byte)}
	healthy := newTestClient(hub)
	hub.register <- stuck
	hub.register <- healthy

	// Nobody reads stuck.send, so the first broadcast evicts it.
	hub.Broadcast("message", map[string]string{"content": "uno"})
	receive(t, healthy)

	hub.Broadcast("message", map[string]string{"content": "dos"})
	receive(t, healthy)

	select {
	case _, ok := <-stuck.send:
		if ok {
			t.Error("stuck client should have been evicted, not served")
		}
	case <-time.After(time.Second):
		t.Error("stuck client's send channel was not closed")
	}
}
