package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send:       make(chan []byte, 10),
		Collection: "itineraries",
	}

	// register client
	hub.register <- client

	// broadcast a test snapshot
	msg := snapshotPayload[string]{Collection: "itineraries", Records: []string{"a", "b"}}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Collection: "itineraries", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for snapshot")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubBroadcastScopedToCollection(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	itin := &Client{Send: make(chan []byte, 10), Collection: "itineraries"}
	notes := &Client{Send: make(chan []byte, 10), Collection: "lovenotes"}
	hub.register <- itin
	hub.register <- notes

	hub.broadcast <- broadcastMsg{Collection: "lovenotes", Data: []byte(`{"collection":"lovenotes"}`)}

	select {
	case <-notes.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("lovenotes subscriber never got its snapshot")
	}

	select {
	case got := <-itin.Send:
		t.Fatalf("itineraries subscriber got another collection's snapshot: %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFeedRemembersLastSnapshot(t *testing.T) {
	feed := NewFeed()
	defer feed.Close()

	ch := make(chan []string, 1)
	Watch(feed, "anniversaries", ch)
	ch <- []string{"x"}
	close(ch)

	deadline := time.After(1 * time.Second)
	for {
		if data, ok := feed.lastSnapshot("anniversaries"); ok {
			var got snapshotPayload[string]
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("stored snapshot does not parse: %v", err)
			}
			if got.Collection != "anniversaries" || len(got.Records) != 1 || got.Records[0] != "x" {
				t.Fatalf("stored snapshot = %+v", got)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("snapshot never reached the feed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
