package sessionws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(hub *Hub, userID int64) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 4)}
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubDeliversOnlyToTargetUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	other := newTestClient(hub, 2)
	hub.Register(first)
	hub.Register(second)
	hub.Register(other)

	hub.NotifySession(1, "signed_out")

	for _, client := range []*Client{first, second} {
		event := receive(t, client)
		if event.Type != EventTypeSession || event.State != "signed_out" {
			t.Fatalf("unexpected event %+v", event)
		}
	}

	select {
	case payload := <-other.send:
		t.Fatalf("user 2 should not receive %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 5)
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("client was not closed")
	}
}
