package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"agribridge/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()

	client := &Client{
		Key:  "ORDtest000001",
		Send: make(chan []byte, 10),
	}
	hub.Register(client)

	if got := hub.Watchers("ORDtest000001"); got != 1 {
		t.Fatalf("expected 1 watcher, got %d", got)
	}

	ev := models.OrderEvent{Type: "status", OrderID: "ORDtest000001", Status: models.StatusProcessing}
	data, _ := json.Marshal(ev)
	hub.Broadcast("ORDtest000001", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
	if got := hub.Watchers("ORDtest000001"); got != 0 {
		t.Fatalf("expected 0 watchers after unregister, got %d", got)
	}
}

func TestHubBroadcastOnlyReachesOwnRoom(t *testing.T) {
	hub := NewHub()

	watching := &Client{Key: "ORDa", Send: make(chan []byte, 10)}
	other := &Client{Key: "ORDb", Send: make(chan []byte, 10)}
	hub.Register(watching)
	hub.Register(other)

	hub.Broadcast("ORDa", []byte("update"))

	select {
	case <-watching.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("watcher never got its update")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("other room received %s", msg)
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{Key: "ORDa", Send: make(chan []byte)} // unbuffered, never read
	hub.Register(slow)

	hub.Broadcast("ORDa", []byte("update"))

	if got := hub.Watchers("ORDa"); got != 0 {
		t.Fatalf("slow client should be dropped, still %d watchers", got)
	}

	// channel was closed on drop
	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	default:
		t.Fatal("expected closed channel, got open one")
	}
}

func TestHubStopClosesEverything(t *testing.T) {
	hub := NewHub()

	a := &Client{Key: "ORDa", Send: make(chan []byte, 1)}
	b := &Client{Key: "ORDb", Send: make(chan []byte, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.Stop()

	for _, c := range []*Client{a, b} {
		if _, ok := <-c.Send; ok {
			t.Fatal("expected closed channel after Stop")
		}
	}
	if hub.Watchers("ORDa") != 0 || hub.Watchers("ORDb") != 0 {
		t.Fatal("rooms must be empty after Stop")
	}
}
